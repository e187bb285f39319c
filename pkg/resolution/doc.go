// Package resolution maps display sizes onto the labels rule documents
// work with: height buckets like "1440p" and aspect-ratio families like
// "16:9". Everything here is a pure function over a "WxH" string or a
// width/height pair.
package resolution
