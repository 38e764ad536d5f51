package commands

import (
	"fmt"
	"regexp"
	"strings"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDelete   Type = "delete"
	TypeComplete Type = "complete"
	TypeShow     Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Contact string
	Date    string
	Time    string
	Notes   string
}

type DeleteArgs struct {
	IDPrefix string
}

type CompleteArgs struct {
	IDPrefix string
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Delete   *DeleteArgs
	Complete *CompleteArgs
	Show     *ShowArgs
}

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(raw, args)
	case TypeDelete:
		return parseDelete(raw, args)
	case TypeComplete:
		return parseComplete(raw, args)
	case TypeShow:
		return parseShow(raw, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads "add <contact...> <date> <time> [notes...]". The contact name
// is everything before the date token.
func parseAdd(raw string, args []string) (Command, error) {
	dateIdx := -1
	for i, arg := range args {
		if datePattern.MatchString(arg) {
			dateIdx = i
			break
		}
	}
	if dateIdx <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a contact name followed by a YYYY-MM-DD date"}
	}
	if dateIdx+1 >= len(args) || !timePattern.MatchString(args[dateIdx+1]) {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires an HH:MM time after the date"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{
		Contact: strings.Join(args[:dateIdx], " "),
		Date:    args[dateIdx],
		Time:    args[dateIdx+1],
		Notes:   strings.Join(args[dateIdx+2:], " "),
	}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires a reminder id prefix"}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{IDPrefix: args[0]}}, nil
}

func parseComplete(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "complete requires a reminder id prefix"}
	}
	return Command{Type: TypeComplete, Raw: raw, Complete: &CompleteArgs{IDPrefix: args[0]}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	if subject != "upcoming" && subject != "all" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show subject must be upcoming or all"}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}
