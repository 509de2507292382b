package db

import (
	kmapping "github.com/mindgarden/consultation/pkg/domain/mapping/db"
	kschedule "github.com/mindgarden/consultation/pkg/domain/schedule/db"
	kschema "github.com/mindgarden/consultation/pkg/domain/schema/db"
	kuser "github.com/mindgarden/consultation/pkg/domain/user/db"
)

type Database interface {
	Schedule() kschedule.ScheduleInterface
	Mapping() kmapping.MappingInterface
	User() kuser.UserInterface
	Schema() kschema.SchemaInterface
	Close() error
}
