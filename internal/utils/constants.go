package utils

const (
	ContentTypeHeader  = "Content-Type"
	CacheControlHeader = "Cache-Control"
	UserAgentHeader    = "User-Agent"
	AcceptHeader       = "Accept"
)

const (
	JSONContentType        = "application/json"
	HTMLContentType        = "text/html; charset=utf-8"
	MarkdownContentType    = "text/markdown"
	OctetStreamContentType = "application/octet-stream"
)

const (
	UserAgent = "vsxregistry/1.0"
)

const (
	PackageJSONPath = "extension/package.json"
	VSIXExtension   = ".vsix"
)

const (
	CORSAllowOrigin  = "*"
	CORSAllowMethods = "OPTIONS,GET,POST,DELETE"
	CORSAllowHeaders = "Content-Type,Authorization,Accept,X-Requested-With"
	CORSMaxAge       = "86400"
)

const (
	HTTPCacheControl       = "no-cache, no-store, max-age=0, must-revalidate"
	HTTPPragma             = "no-cache"
	HTTPExpires            = "0"
	HTTPContentTypeOptions = "nosniff"
	HTTPFrameOptions       = "DENY"
)
