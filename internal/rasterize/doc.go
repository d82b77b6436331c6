// Package rasterize turns uploaded documents into images and images back
// into transportable form. It is the boundary collaborator of the core
// pipeline: the core never touches file bytes, encodings, or external
// processes.
//
// Raster uploads (PNG, JPEG, GIF, BMP, TIFF, WebP) decode to a single
// page. PDF uploads are rasterized to one image per page by invoking
// poppler's pdftoppm, the same renderer the service has always relied on.
// Results are returned in page order.
package rasterize
