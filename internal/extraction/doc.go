// Package extraction implements the pipeline stage that pulls the audio
// track out of the source video into a speech-recognition-friendly WAV.
package extraction
