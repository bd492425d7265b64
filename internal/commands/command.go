package commands

import "strings"

// Command is one of the supported bot commands
type Command int

const (
	Unknown Command = iota
	Ping
	Help
	Airdrops
	List
	Status
	MsgTest
)

var names = map[string]Command{
	"ping":     Ping,
	"help":     Help,
	"start":    Help,
	"airdrops": Airdrops,
	"list":     List,
	"status":   Status,
	"msgtest":  MsgTest,
}

func (c Command) String() string {
	switch c {
	case Ping:
		return "ping"
	case Help:
		return "help"
	case Airdrops:
		return "airdrops"
	case List:
		return "list"
	case Status:
		return "status"
	case MsgTest:
		return "msgtest"
	default:
		return "unknown"
	}
}

// Parse maps message text such as "/AirDrops@my_bot now" to a Command.
// Text that is not a slash command is Unknown.
func Parse(text string) Command {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return Unknown
	}

	word := strings.Fields(text[1:])
	if len(word) == 0 {
		return Unknown
	}
	name, _, _ := strings.Cut(word[0], "@")

	if cmd, ok := names[strings.ToLower(name)]; ok {
		return cmd
	}
	return Unknown
}
