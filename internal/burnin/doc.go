// Package burnin implements the final pipeline stage: compositing the
// subtitle track into the video pixels with the transcoder's subtitles
// filter.
package burnin
