// Package media provides raster image transcoding backed by libvips.
//
// Images two directory levels below the source root are treated as icons
// and re-encoded as lossless PNG; everything else becomes lossy AVIF tuned
// for photographic content. Oversized images are downscaled to a fixed
// ceiling preserving aspect ratio, and images carrying an alpha channel are
// repacked as raw interleaved RGBA before the final encode so transparency
// survives.
package media
