// Package footage talks to stock video catalogs. The Pexels implementation
// searches for portrait clips and downloads the selected renditions.
package footage
