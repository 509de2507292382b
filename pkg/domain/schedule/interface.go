package schedule

import "github.com/mindgarden/consultation/pkg/domain/schedule/db"

type Interface interface {
	Database() db.ScheduleInterface
}

type impl struct {
	database db.ScheduleInterface
}

func New(database db.ScheduleInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.ScheduleInterface {
	return i.database
}
