// Package vidnote is the Composition Root for the video note engine.
//
// It connects the note store (Domain Layer) with the storage adapters
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// A note is the durable result of asking a video-understanding provider about a
// video. The store keeps notes in a single document that is rewritten atomically on
// every change, so a crash leaves either the old or the new document on disk.
//
// Features:
//
//   - **Atomic Document**: every mutation rewrites the JSON/YAML document via temp file and rename.
//   - **Pluggable Storage**: `core.Repository` has file and SQLite adapters.
//   - **Provider Agnostic Ingestion**: `ingest.Client` drives any `ingest.Provider` through submit, poll and generate.
//   - **Pure Queries**: `query.Filter` and `query.AvailableTags` never touch storage.
//
// Usage:
//
//	svc, err := vidnote.New("./notes.json",
//		vidnote.WithLogger(logger),
//	)
//
//	note, err := svc.Create(ctx, core.NewNote{SourceURL: url, Prompt: prompt, Content: text})
package vidnote
