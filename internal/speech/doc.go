// Package speech binds a speech-to-text engine for the transcription stage.
//
// Engines are external tools invoked as subprocesses. Resolve probes the
// configured providers in preference order and binds the first one whose
// launcher is installed, so a missing engine is reported as a setup error
// before any job starts rather than as a mid-job failure.
package speech
