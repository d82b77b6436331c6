// Package server implements the HTTP boundary of the scanprep service.
//
// It exposes the two core operations and a pair of informational routes:
//
//	POST /convert  multipart upload + threshold -> binarized page(s)
//	POST /rotate   multipart upload + line params -> deskewed image
//	GET  /health   liveness, version, uptime
//	GET  /         service banner and endpoint listing
//
// The handlers own everything the core refuses to do: multipart parsing,
// upload size limits, PDF page rasterization, default parameter filling,
// base64 PNG serialization, and translation of core error kinds into
// structured JSON error responses carrying a success flag, message, kind,
// and timestamp.
//
// # Request Lifecycle
//
// Every request is self-contained: the upload is decoded, the core is
// invoked once per page, and all buffers are released when the response is
// written. No state is shared between requests, so the handlers are safe
// under arbitrary concurrency; admission control is the job of the
// http.Server timeouts and the upload size limit.
package server
