// Package generic reads chapters and page images from manga sites that
// render their chapter list as plain anchors. Images are gathered from
// every place a reader page tends to hide them and reduced to one URL per
// page.
package generic
