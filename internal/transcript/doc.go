// Package transcript resolves YouTube input URLs to video IDs and fetches
// caption text for them.
//
// Source is the boundary used by the pipeline. YouTubeSource reads the
// caption track list from the watch page and downloads the preferred track;
// CachedSource memoizes any Source in a cache.Cache. PlaylistResolver expands
// playlist URLs into ordered video IDs via ytdlp.
package transcript
