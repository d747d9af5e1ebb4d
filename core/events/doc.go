// Package events defines the typed dialogue event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - conversation.*
//   - session.*
//   - user_input.*
//   - assistant_playback.*
//
// conversation events
//
//   - TurnAppended (conversation.turn_appended): a turn was appended to the
//     conversation log.
//   - ConversationReset (conversation.reset): the log was reset to the seeded
//     greeting.
//
// session events
//
//   - PhaseChanged (session.phase_changed): the orchestrator moved between
//     idle, listening, loading and speaking.
//   - FeatureArmed (session.feature_armed): the next user input will be
//     interpreted as a feature parameter.
//   - Advisory (session.advisory): a recoverable condition was surfaced to
//     the user without changing conversational state.
//
// user_input events
//
//   - ListeningStarted (user_input.listening_started): a one-shot recognition
//     session was activated.
//   - TranscriptFinal (user_input.transcript_final): terminal transcript for
//     the utterance.
//   - ListeningEnded (user_input.listening_ended): the recognition session
//     resolved, with or without a transcript.
//
// assistant_playback events
//
//   - PlaybackStarted (assistant_playback.started): the first chunk of a
//     response began playing.
//   - PlaybackChunkStarted (assistant_playback.chunk_started): a chunk within
//     the current response began playing.
//   - PlaybackEnded (assistant_playback.ended): playback for the current
//     response finished, was stopped, or failed.
package events
