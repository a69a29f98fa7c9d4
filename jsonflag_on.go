//go:build !lite3_nojson

package lite3

const jsonEnabled = true
