package mapping

import "github.com/mindgarden/consultation/pkg/domain/mapping/db"

type Interface interface {
	Database() db.MappingInterface
}

type impl struct {
	database db.MappingInterface
}

func New(database db.MappingInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.MappingInterface {
	return i.database
}
