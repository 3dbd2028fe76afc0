// Package corrections implements the correction store service: a stateless
// HTTP interface over one logical key-value document of per-field overrides.
//
// A correction records which of the two disagreeing source systems is
// authoritative for one field of one location, stored under the composite key
// "{region}-{entityId}-{field}" with value {correct, value}. Correction
// records are independent per key; writing one never touches others except
// via explicit merge.
//
// # Request state machine
//
// Every request flows: Received -> [OPTIONS: 204] | [unsupported method: 405]
// | [GET: read, maybe 304, else 200] | [mutating: validate size -> parse JSON
// -> normalize legacy shape -> merge/replace -> persist -> bump version ->
// 200]. Failures map onto the error taxonomy: 400 malformed payloads, 413
// oversized bodies (checked before parsing), 500 store failures with the
// message only.
//
// # Legacy encoding
//
// Older dashboards sent corrections as a flat array of {gdos_id, field,
// correct, customZestyValue|zesty_value} objects, optionally wrapped under
// {data: [...]}. Writes in that shape are transcoded into the composite-key
// mapping before merging; see payload.go.
//
// # Versioning
//
// Every successful write stamps version = epoch millis. GET supports
// If-None-Match against the version, and successful GET/PATCH responses carry
// ETag and X-Last-Modified headers. PATCH is last-write-wins; concurrent
// deltas are not conflict-checked (see the Service doc).
//
// # HTTP Endpoints
//
//   - OPTIONS /corrections : CORS preflight, always 204.
//   - GET     /corrections : {current, version}, or 304.
//   - PUT     /corrections : full replace (mapping or legacy array).
//   - PATCH   /corrections : partial merge, null value deletes its key.
package corrections
