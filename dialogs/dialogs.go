// Package dialogs asks the user simple questions through the browser's modal
// dialogs.
package dialogs

// Prompter shows modal dialogs.
type Prompter interface {
	Alert(message string)
	// Prompt asks for a line of text. ok is false when the user cancelled.
	Prompt(message, initial string) (answer string, ok bool)
	Confirm(message string) bool
}

// Scripted is a Prompter that answers from queues and records what it was
// asked. It stands in for the browser where no user is present.
type Scripted struct {
	Answers  []string
	Confirms []bool

	Alerts  []string
	Prompts []string
}

func (s *Scripted) Alert(message string) {
	s.Alerts = append(s.Alerts, message)
}

// Prompt returns the next queued answer; an empty queue cancels.
func (s *Scripted) Prompt(message, _ string) (string, bool) {
	s.Prompts = append(s.Prompts, message)
	if len(s.Answers) == 0 {
		return "", false
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, true
}

// Confirm returns the next queued decision; an empty queue declines.
func (s *Scripted) Confirm(message string) bool {
	s.Prompts = append(s.Prompts, message)
	if len(s.Confirms) == 0 {
		return false
	}
	ok := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return ok
}
