// Package wizard implements the device-onboarding flow as a finite state
// machine that is independent of any rendering layer.
//
// The flow moves strictly forward:
//
//	Idle → Searching → DevicesListed → AskingQuestions → Connecting → Completed
//
// with Cancel returning to Idle from any phase before Completed. Machine.Step
// is a pure (state, event) → state function; Wizard wraps it with a Scheduler
// for the two simulated delays and a completion callback for the host view.
//
// Each run carries a token. Timer events are stamped with the token of the
// run that scheduled them, so a timer that fires after Cancel (or after a new
// run started) is ignored even if its handle was never stopped.
package wizard
