package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/schoolhub/school-api/internal/api/handler"
	"github.com/schoolhub/school-api/internal/core/domain"
	"github.com/schoolhub/school-api/internal/core/ports"
	"github.com/schoolhub/school-api/internal/core/service"
	mongostore "github.com/schoolhub/school-api/internal/infrastructure/db/mongo"
)

// crudHandler is implemented by handler.ResourceHandler for every entity.
type crudHandler interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
}

// Resource is one entity exposed under /<Name>.
type Resource struct {
	Name    string
	Handler crudHandler
	// NoCreate leaves POST /<Name> unrouted.
	NoCreate bool
}

// NewResource wires a service into a Resource.
func NewResource[T any, P any](svc ports.ResourceService[T, P], label string) Resource {
	return Resource{Name: svc.Name(), Handler: handler.NewResourceHandler(svc, label)}
}

type storable[T any] interface {
	*T
	SetID(id int64)
}

func mongoResource[T any, P any, PT storable[T]](db *mongo.Database, seq *mongostore.Sequence, log zerolog.Logger, name, label string) Resource {
	repo := mongostore.NewResourceRepository[T, P, PT](db, name, seq)
	return NewResource[T, P](service.NewResourceService[T, P](name, repo, log), label)
}

// MongoResources builds every school entity resource plus the admin-only
// users resource on top of db.
func MongoResources(db *mongo.Database, seq *mongostore.Sequence, accounts *mongostore.AccountRepository, log zerolog.Logger) []Resource {
	users := NewResource[domain.Account, domain.AccountPatch](
		service.NewResourceService[domain.Account, domain.AccountPatch]("users", accounts, log), "user")
	users.NoCreate = true

	return []Resource{
		users,
		mongoResource[domain.Student, domain.StudentPatch](db, seq, log, "students", "student"),
		mongoResource[domain.Teacher, domain.TeacherPatch](db, seq, log, "teachers", "teacher"),
		mongoResource[domain.Class, domain.ClassPatch](db, seq, log, "classes", "class"),
		mongoResource[domain.Subject, domain.SubjectPatch](db, seq, log, "subjects", "subject"),
		mongoResource[domain.Schedule, domain.SchedulePatch](db, seq, log, "schedules", "schedule"),
		mongoResource[domain.Grade, domain.GradePatch](db, seq, log, "grades", "grade"),
		mongoResource[domain.News, domain.NewsPatch](db, seq, log, "news", "news item"),
		mongoResource[domain.Event, domain.EventPatch](db, seq, log, "events", "event"),
		mongoResource[domain.File, domain.FilePatch](db, seq, log, "files", "file"),
		mongoResource[domain.Link, domain.LinkPatch](db, seq, log, "links", "link"),
		mongoResource[domain.Message, domain.MessagePatch](db, seq, log, "messages", "message"),
		mongoResource[domain.Forum, domain.ForumPatch](db, seq, log, "forums", "forum"),
		mongoResource[domain.Club, domain.ClubPatch](db, seq, log, "clubs", "club"),
		mongoResource[domain.Sport, domain.SportPatch](db, seq, log, "sports", "sport"),
		mongoResource[domain.SportsEvent, domain.SportsEventPatch](db, seq, log, "sports_events", "sports event"),
		mongoResource[domain.Library, domain.LibraryPatch](db, seq, log, "libraries", "library"),
		mongoResource[domain.Book, domain.BookPatch](db, seq, log, "books", "book"),
		mongoResource[domain.CheckoutRecord, domain.CheckoutRecordPatch](db, seq, log, "checkout_records", "checkout record"),
	}
}
