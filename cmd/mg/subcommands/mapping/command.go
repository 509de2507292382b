package mapping

import (
	mapping_approve "github.com/mindgarden/consultation/cmd/mg/subcommands/mapping/approve"
	mapping_create "github.com/mindgarden/consultation/cmd/mg/subcommands/mapping/create"
	mapping_extend "github.com/mindgarden/consultation/cmd/mg/subcommands/mapping/extend"
	mapping_list "github.com/mindgarden/consultation/cmd/mg/subcommands/mapping/list"
	mapping_payment "github.com/mindgarden/consultation/cmd/mg/subcommands/mapping/payment"
	mapping_refund "github.com/mindgarden/consultation/cmd/mg/subcommands/mapping/refund"
	mapping_show "github.com/mindgarden/consultation/cmd/mg/subcommands/mapping/show"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {

	list, err := mapping_list.New()
	if err != nil {
		return nil, err
	}

	show, err := mapping_show.New()
	if err != nil {
		return nil, err
	}

	create, err := mapping_create.New()
	if err != nil {
		return nil, err
	}

	payment, err := mapping_payment.New()
	if err != nil {
		return nil, err
	}

	approve, err := mapping_approve.New()
	if err != nil {
		return nil, err
	}

	extend, err := mapping_extend.New()
	if err != nil {
		return nil, err
	}

	refund, err := mapping_refund.NewRefund()
	if err != nil {
		return nil, err
	}

	terminate, err := mapping_refund.NewTerminate()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate mappings between consultants and clients.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("confirm-payment", payment),
		flarc.WithSubcommand("approve", approve),
		flarc.WithSubcommand("extend", extend),
		flarc.WithSubcommand("refund", refund),
		flarc.WithSubcommand("terminate", terminate),
	)
}
