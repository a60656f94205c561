package dispatch

import (
	"sort"
	"strings"
)

// Complete expands the current input line against known commands,
// G-codes, macros and filenames. It returns the (possibly extended)
// line and the remaining candidates when the match is ambiguous.
func (d *Dispatcher) Complete(text string) (string, []string) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	// Completing an argument to print/info: match filenames.
	lower := strings.ToLower(text)
	for _, cmd := range []string{"print ", "info "} {
		if strings.HasPrefix(lower, cmd) {
			prefix := text[:len(cmd)]
			arg := text[len(cmd):]
			return completeFrom(prefix, arg, d.FreshFilenames())
		}
	}

	if strings.ContainsRune(text, ' ') {
		return text, nil
	}

	candidates := make([]string, 0, len(localCommands)+len(commonGcodes))
	candidates = append(candidates, localCommands...)
	candidates = append(candidates, commonGcodes...)
	candidates = append(candidates, d.knownPrinterCommands()...)
	return completeFrom("", text, candidates)
}

// knownPrinterCommands returns macros and registered gcode commands,
// fetched from the printer once per session.
func (d *Dispatcher) knownPrinterCommands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.printerCommandsFetched {
		return d.printerCommands
	}

	var commands []string
	if macros, err := d.api.Macros(); err == nil {
		commands = append(commands, macros...)
	}
	if helpEntries, err := d.api.GcodeHelp(); err == nil {
		for name := range helpEntries {
			commands = append(commands, name)
		}
	}
	sort.Strings(commands)

	d.printerCommands = commands
	d.printerCommandsFetched = true
	return commands
}

// completeFrom matches partial case-insensitively against candidates and
// returns prefix plus the longest unambiguous extension of partial.
func completeFrom(prefix, partial string, candidates []string) (string, []string) {
	lower := strings.ToLower(partial)
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), lower) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return prefix + partial, nil
	case 1:
		return prefix + matches[0], nil
	}
	return prefix + partial + commonSuffix(matches, len(partial)), matches
}

// commonSuffix returns the characters shared by all matches beyond the
// first skip bytes.
func commonSuffix(matches []string, skip int) string {
	first := matches[0]
	end := len(first)
	for _, m := range matches[1:] {
		if len(m) < end {
			end = len(m)
		}
		for i := skip; i < end; i++ {
			if lowerByte(first[i]) != lowerByte(m[i]) {
				end = i
				break
			}
		}
	}
	if end <= skip {
		return ""
	}
	return first[skip:end]
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
