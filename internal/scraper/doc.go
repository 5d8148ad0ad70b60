// Package scraper downloads the quarterly accounting archives published by
// ANS into the local staging directory.
//
// Each configured year has an index page under the base URL. Anchors whose
// href ends in ".zip" and contains a "T" are treated as quarterly archives
// and saved under their anchor text. Archives already present in staging
// are not downloaded again. Requests are paced with a token bucket and each
// download is written to a temporary file and renamed into place.
package scraper
