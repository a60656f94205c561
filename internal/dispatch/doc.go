// Package dispatch turns submitted input lines into printer actions.
//
// Local commands (ls, print, info, reprint, history, z, pause, resume,
// cancel, help) are matched by a case-insensitive prefix grammar; any
// other line passes through to the printer as raw gcode. File arguments
// accept either literal names or #N ids, where #0 is the newest file of
// the most recent listing. Results come back as styled terminal lines
// for the UI to append.
package dispatch
