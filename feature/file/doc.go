// Package file implements file transfer against the object store.
//
// Each operation is one synchronous call to the storage client (uploads add
// an existence check and, when needed, a bucket create).
//
// # Keys
//
// Uploaded files are stored under their original filename. With
// storage.encode_keys enabled (the default) the filename is form-encoded
// first, and URL generation applies the same encoding so the two agree.
// Download, delete, stat and public grants take the key as stored.
//
// # Public Access
//
// MakeObjectPublic adds an anonymous GetObject statement for one object to
// the bucket policy. With storage.replace_policy enabled it overwrites the
// whole policy instead, revoking every earlier grant in that bucket.
//
// # HTTP Endpoints
//
//   - GET /files/:bucket : List object keys.
//   - POST /files/:bucket : Upload the multipart field "file".
//   - GET /files/:bucket/:filename : Download as an attachment.
//   - DELETE /files/:bucket/:filename : Delete an object.
//   - GET /files/:bucket/:filename/url : Presigned URL valid for two hours.
//   - PUT /files/:bucket/:filename/public : Grant anonymous read.
//   - GET /files/:bucket/:filename/stat : Object metadata.
package file
