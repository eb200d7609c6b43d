// Package source loads texture images from a filesystem and registers
// them with an atlas manager. Decoded handles are cached, and
// concurrent loads of the same file are collapsed into one decode.
//
// PNG, JPEG, and BMP are supported out of the box. Additional formats
// can be enabled by blank-importing their image decoder.
package source
