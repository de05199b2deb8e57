/*
Package css implements the style side of the engine: inline styles,
stylesheets, selector matching, the cascade, background and gradient
values, and the splitting of multi-layer backgrounds into per-layer
records.
*/
package css

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'layerstack.css'.
func tracer() tracing.Trace {
	return tracing.Select("layerstack.css")
}
