package schedule

import (
	schedule_autocomplete "github.com/mindgarden/consultation/cmd/mg/subcommands/schedule/autocomplete"
	schedule_book "github.com/mindgarden/consultation/cmd/mg/subcommands/schedule/book"
	schedule_list "github.com/mindgarden/consultation/cmd/mg/subcommands/schedule/list"
	schedule_show "github.com/mindgarden/consultation/cmd/mg/subcommands/schedule/show"
	schedule_transition "github.com/mindgarden/consultation/cmd/mg/subcommands/schedule/transition"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {

	list, err := schedule_list.New()
	if err != nil {
		return nil, err
	}

	show, err := schedule_show.New()
	if err != nil {
		return nil, err
	}

	book, err := schedule_book.New()
	if err != nil {
		return nil, err
	}

	confirm, err := schedule_transition.NewConfirm()
	if err != nil {
		return nil, err
	}

	complete, err := schedule_transition.NewComplete()
	if err != nil {
		return nil, err
	}

	cancel, err := schedule_transition.NewCancel()
	if err != nil {
		return nil, err
	}

	autocomplete, err := schedule_autocomplete.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate consultation schedules.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("book", book),
		flarc.WithSubcommand("confirm", confirm),
		flarc.WithSubcommand("complete", complete),
		flarc.WithSubcommand("cancel", cancel),
		flarc.WithSubcommand("auto-complete", autocomplete),
	)
}
