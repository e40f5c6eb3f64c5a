package middleware

// ContextKeyRequestID is the echo context key holding the request identifier.
const ContextKeyRequestID = "request_id"

// HeaderRequestID is the header used to accept and echo request identifiers.
const HeaderRequestID = "X-Request-ID"
