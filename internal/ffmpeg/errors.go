package ffmpeg

import "regexp"

// reAlreadyExists matches ffmpeg's -n refusal message ("File 'x' already
// exists. Exiting."). Matched loosely on the shared fragment because the
// exact phrasing has varied across ffmpeg releases.
var reAlreadyExists = regexp.MustCompile(`already exists`)

// MatchAlreadyExists reports whether stderr contains the encoder's own
// refusal to overwrite an existing output file.
func MatchAlreadyExists(stderr string) bool {
	return reAlreadyExists.MatchString(stderr)
}
