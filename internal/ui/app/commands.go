package app

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is a parsed palette entry.
type Command struct {
	Name    string
	Minutes int
	Text    string
	Quality string
	Day     string
}

// ParseCommand understands the entries listed in components.Hints.
func ParseCommand(input string) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	name := strings.ToLower(fields[0])
	rest := func(n int) string {
		if len(fields) <= n {
			return ""
		}
		return strings.Join(fields[n:], " ")
	}

	switch name {
	case "start":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("usage: start <minutes> <goals>")
		}
		minutes, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("usage: start <minutes> <goals>: minutes must be a number")
		}
		return Command{Name: name, Minutes: minutes, Text: rest(2)}, nil

	case "plan":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: plan <minutes>")
		}
		minutes, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("usage: plan <minutes>: minutes must be a number")
		}
		return Command{Name: name, Minutes: minutes}, nil

	case "goals", "note":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("usage: %s <text>", name)
		}
		return Command{Name: name, Text: rest(1)}, nil

	case "rate":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("usage: rate <poor|normal|great|deep> [notes]")
		}
		return Command{Name: name, Quality: strings.ToLower(fields[1]), Text: rest(2)}, nil

	case "export":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("usage: export day [YYYY-MM-DD] | export session")
		}
		switch strings.ToLower(fields[1]) {
		case "day":
			return Command{Name: "export-day", Day: rest(2)}, nil
		case "session":
			return Command{Name: "export-session"}, nil
		}
		return Command{}, fmt.Errorf("unknown export target %q", fields[1])

	case "end", "cancel", "refresh":
		return Command{Name: name}, nil
	}
	return Command{}, fmt.Errorf("unknown command: %s", fields[0])
}
