// Package pixel implements the bilevel color model and packed image formats used by
// page-addressed LCD and OLED controllers.
//
// The images are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces.
package pixel
