// Package libris provides the core of a library-content service: book
// metadata backed by PostgreSQL or SQLite, book assets (cover image and
// document) backed by S3-compatible object storage, and the lifecycle
// pipeline that keeps the two consistent.
//
// # Key Components
//
//   - LibraryService: the asset lifecycle orchestrator. Each create, update
//     and delete runs a strictly ordered pipeline (remote uploads, metadata
//     write, staged-file cleanup) with saga-style compensation when a later
//     step fails.
//   - BookRepo / UserRepo: metadata persistence interfaces (PostgreSQL,
//     SQLite implementations in database/).
//   - AssetStore: remote object storage interface (S3 implementation in
//     s3store/).
//   - AssetRef / ParseRef: the single encode/decode pair between a durable
//     reference URL and the remote object key it addresses.
//   - UserService: registration and login, issuing tokens via pluggable
//     hasher and token-issuer collaborators.
//
// # Consistency Model
//
// A Book record is written only after both of its assets are in remote
// storage, so records are never visible mid-creation. Failed creates unwind
// already-uploaded objects in reverse order. Deletes remove remote objects
// best effort and the record unconditionally, so metadata never references
// assets the caller asked to remove. Staged local files never survive the
// request that produced them.
//
// See the httpapi package for the REST surface and the staging package for
// multipart intake.
package libris
