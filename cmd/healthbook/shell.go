package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/logic"
	"github.com/healthbook/healthbook/internal/logic/command"
	"github.com/healthbook/healthbook/internal/platform/event"
	"github.com/healthbook/healthbook/internal/storage"
)

const prompt = "> "

// runShell reads command lines from in until exit, end of input or ctx is
// done, printing the results to out.
func runShell(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	defer a.bus.Subscribe(event.KindSaveFailed, func(ev event.Event) {
		if f, ok := ev.Payload.(storage.SaveFailure); ok {
			fmt.Fprintf(out, "Could not save data to %s: %v\n", f.Location, f.Err)
		}
	})()
	defer a.bus.Subscribe(event.KindPersonSelected, func(ev event.Event) {
		if p, ok := ev.Payload.(record.Person); ok {
			fmt.Fprint(out, describePerson(p))
		}
	})()

	fmt.Fprintf(out, "Health book (%s). Type \"%s\" for the list of commands.\n", a.storage.Location(), command.HelpWord)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if exit := runLine(a.logic, line, out); exit {
			return nil
		}
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

// runLine executes one line and prints what the user should see. It reports
// whether the shell should stop.
func runLine(l *logic.Logic, line string, out io.Writer) bool {
	res, err := l.Execute(line)
	if err != nil {
		if logic.IsUserError(err) {
			fmt.Fprintln(out, err.Error())
		} else {
			fmt.Fprintf(out, "Something went wrong: %v\n", err)
		}
		return false
	}

	fmt.Fprintln(out, res.Feedback)
	if res.ShowHelp {
		fmt.Fprintln(out, command.HelpText)
	}
	switch firstWord(line) {
	case command.ListWord, command.FindWord:
		printPersons(out, l.FilteredPersons())
	case command.ListAppointmentsWord:
		printAppointments(out, l.FilteredAppointments())
	}
	return res.Exit
}

func firstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func printPersons(out io.Writer, persons []record.Person) {
	for i, p := range persons {
		fmt.Fprintf(out, "%d. %s\n", i+1, formatPerson(p))
	}
}

func printAppointments(out io.Writer, appts []record.Appointment) {
	for _, a := range appts {
		fmt.Fprintln(out, a)
	}
}

// formatPerson is the one-line summary used in listings.
func formatPerson(p record.Person) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s, %s", p.Role, p.Name, p.Phone)
	if len(p.UpcomingAppointments) > 0 {
		ids := make([]string, len(p.UpcomingAppointments))
		for i, a := range p.UpcomingAppointments {
			ids[i] = fmt.Sprintf("#%d", a.ID)
		}
		fmt.Fprintf(&b, ", upcoming %s", strings.Join(ids, " "))
	}
	if p.Remark != "" {
		fmt.Fprintf(&b, " (%s)", p.Remark)
	}
	return b.String()
}

// describePerson is the full record shown when a person is selected.
func describePerson(p record.Person) string {
	var b strings.Builder
	fmt.Fprintln(&b, formatPerson(p))
	fmt.Fprintf(&b, "  Email: %s\n  Address: %s\n", p.Email, p.Address)
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "  Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Role == record.RolePatient {
		fmt.Fprintf(&b, "  Allergies: %s\n", orNone(p.MedicalHistory.Allergies))
		fmt.Fprintf(&b, "  Conditions: %s\n", orNone(p.MedicalHistory.Conditions))
	}
	writeAppointments(&b, "Upcoming appointments", p.UpcomingAppointments)
	writeAppointments(&b, "Past appointments", p.PastAppointments)
	return b.String()
}

func writeAppointments(b *strings.Builder, title string, appts []record.Appointment) {
	if len(appts) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s:\n", title)
	for _, a := range appts {
		fmt.Fprintf(b, "    %s\n", a)
	}
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
