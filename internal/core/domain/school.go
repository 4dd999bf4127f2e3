package domain

import "time"

// Record carries the sequential identifier shared by every school entity.
type Record struct {
	ID int64 `json:"id" bson:"_id"`
}

// SetID assigns the identifier allocated by the store.
func (r *Record) SetID(id int64) { r.ID = id }

// CreateStamper is implemented by entities that fill server-side fields
// (timestamps, author) when they are created.
type CreateStamper interface {
	StampCreate(actor Principal, now time.Time)
}

// PatchNormaliser is implemented by patches that canonicalise their fields
// before they are written.
type PatchNormaliser interface {
	Normalise() error
}

type Student struct {
	Record      `bson:",inline"`
	Username    string    `json:"username"     bson:"username"     validate:"required"`
	Email       string    `json:"email"        bson:"email"        validate:"required,email"`
	PhoneNumber string    `json:"phone_number" bson:"phone_number"`
	Grade       int       `json:"grade"        bson:"grade"        validate:"gte=0"`
	ClassIDs    []int64   `json:"class_ids"    bson:"class_ids"`
	CreatedAt   time.Time `json:"created_at"   bson:"created_at"`
}

func (s *Student) StampCreate(_ Principal, now time.Time) { s.CreatedAt = now }

type StudentPatch struct {
	Username    *string  `json:"username"     bson:"username,omitempty"     validate:"omitempty,min=1"`
	Email       *string  `json:"email"        bson:"email,omitempty"        validate:"omitempty,email"`
	PhoneNumber *string  `json:"phone_number" bson:"phone_number,omitempty"`
	Grade       *int     `json:"grade"        bson:"grade,omitempty"        validate:"omitempty,gte=0"`
	ClassIDs    *[]int64 `json:"class_ids"    bson:"class_ids,omitempty"`
}

// Teacher is a staff profile. A teacher profile whose email matches a
// registration request is what allows that request to create an account.
type Teacher struct {
	Record      `bson:",inline"`
	Username    string    `json:"username"     bson:"username"     validate:"required"`
	Email       string    `json:"email"        bson:"email"        validate:"required,email"`
	PhoneNumber string    `json:"phone_number" bson:"phone_number"`
	SubjectIDs  []int64   `json:"subject_ids"  bson:"subject_ids"`
	CreatedAt   time.Time `json:"created_at"   bson:"created_at"`
}

func (t *Teacher) StampCreate(_ Principal, now time.Time) { t.CreatedAt = now }

type TeacherPatch struct {
	Username    *string  `json:"username"     bson:"username,omitempty"     validate:"omitempty,min=1"`
	Email       *string  `json:"email"        bson:"email,omitempty"        validate:"omitempty,email"`
	PhoneNumber *string  `json:"phone_number" bson:"phone_number,omitempty"`
	SubjectIDs  *[]int64 `json:"subject_ids"  bson:"subject_ids,omitempty"`
}

type Class struct {
	Record     `bson:",inline"`
	Name       string  `json:"name"        bson:"name"        validate:"required"`
	GradeLevel int     `json:"grade_level" bson:"grade_level" validate:"gte=0"`
	StudentIDs []int64 `json:"student_ids" bson:"student_ids"`
}

type ClassPatch struct {
	Name       *string  `json:"name"        bson:"name,omitempty"        validate:"omitempty,min=1"`
	GradeLevel *int     `json:"grade_level" bson:"grade_level,omitempty" validate:"omitempty,gte=0"`
	StudentIDs *[]int64 `json:"student_ids" bson:"student_ids,omitempty"`
}

type Subject struct {
	Record      `bson:",inline"`
	Name        string  `json:"name"        bson:"name"        validate:"required"`
	Description string  `json:"description" bson:"description"`
	TeacherIDs  []int64 `json:"teacher_ids" bson:"teacher_ids"`
}

type SubjectPatch struct {
	Name        *string  `json:"name"        bson:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string  `json:"description" bson:"description,omitempty"`
	TeacherIDs  *[]int64 `json:"teacher_ids" bson:"teacher_ids,omitempty"`
}

type Schedule struct {
	Record    `bson:",inline"`
	ClassID   int64     `json:"class_id"   bson:"class_id"   validate:"required"`
	ClassTime time.Time `json:"class_time" bson:"class_time" validate:"required"`
	Location  string    `json:"location"   bson:"location"`
	TeacherID int64     `json:"teacher_id" bson:"teacher_id"`
}

type SchedulePatch struct {
	ClassID   *int64     `json:"class_id"   bson:"class_id,omitempty"`
	ClassTime *time.Time `json:"class_time" bson:"class_time,omitempty"`
	Location  *string    `json:"location"   bson:"location,omitempty"`
	TeacherID *int64     `json:"teacher_id" bson:"teacher_id,omitempty"`
}

type Grade struct {
	Record    `bson:",inline"`
	StudentID int64   `json:"student_id" bson:"student_id" validate:"required"`
	SubjectID int64   `json:"subject_id" bson:"subject_id" validate:"required"`
	Grade     float64 `json:"grade"      bson:"grade"      validate:"gte=0"`
}

type GradePatch struct {
	StudentID *int64   `json:"student_id" bson:"student_id,omitempty"`
	SubjectID *int64   `json:"subject_id" bson:"subject_id,omitempty"`
	Grade     *float64 `json:"grade"      bson:"grade,omitempty"      validate:"omitempty,gte=0"`
}

type News struct {
	Record    `bson:",inline"`
	Title     string    `json:"title"      bson:"title"      validate:"required"`
	Content   string    `json:"content"    bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (n *News) StampCreate(_ Principal, now time.Time) { n.CreatedAt = now }

type NewsPatch struct {
	Title   *string `json:"title"   bson:"title,omitempty"   validate:"omitempty,min=1"`
	Content *string `json:"content" bson:"content,omitempty"`
}

// Event is a school calendar entry. Date is YYYY-MM-DD and Time is HH:MM.
type Event struct {
	Record      `bson:",inline"`
	Name        string `json:"name"        bson:"name"        validate:"required"`
	Date        string `json:"date"        bson:"date"        validate:"omitempty,datetime=2006-01-02"`
	Time        string `json:"time"        bson:"time"        validate:"omitempty,datetime=15:04"`
	Location    string `json:"location"    bson:"location"`
	Description string `json:"description" bson:"description"`
}

type EventPatch struct {
	Name        *string `json:"name"        bson:"name,omitempty"        validate:"omitempty,min=1"`
	Date        *string `json:"date"        bson:"date,omitempty"        validate:"omitempty,datetime=2006-01-02"`
	Time        *string `json:"time"        bson:"time,omitempty"        validate:"omitempty,datetime=15:04"`
	Location    *string `json:"location"    bson:"location,omitempty"`
	Description *string `json:"description" bson:"description,omitempty"`
}

type File struct {
	Record      `bson:",inline"`
	Name        string `json:"name"        bson:"name"        validate:"required"`
	FilePath    string `json:"file_path"   bson:"file_path"   validate:"required"`
	Description string `json:"description" bson:"description"`
	SubjectID   int64  `json:"subject_id"  bson:"subject_id"`
}

type FilePatch struct {
	Name        *string `json:"name"        bson:"name,omitempty"        validate:"omitempty,min=1"`
	FilePath    *string `json:"file_path"   bson:"file_path,omitempty"   validate:"omitempty,min=1"`
	Description *string `json:"description" bson:"description,omitempty"`
	SubjectID   *int64  `json:"subject_id"  bson:"subject_id,omitempty"`
}

type Link struct {
	Record      `bson:",inline"`
	Name        string `json:"name"        bson:"name"        validate:"required"`
	URL         string `json:"url"         bson:"url"         validate:"required,url"`
	Description string `json:"description" bson:"description"`
	SubjectID   int64  `json:"subject_id"  bson:"subject_id"`
}

type LinkPatch struct {
	Name        *string `json:"name"        bson:"name,omitempty"        validate:"omitempty,min=1"`
	URL         *string `json:"url"         bson:"url,omitempty"         validate:"omitempty,url"`
	Description *string `json:"description" bson:"description,omitempty"`
	SubjectID   *int64  `json:"subject_id"  bson:"subject_id,omitempty"`
}

// Message is a post by an account. SenderID always comes from the token of
// the author, never from the request body.
type Message struct {
	Record   `bson:",inline"`
	SenderID int64     `json:"sender_id" bson:"sender_id"`
	Content  string    `json:"content"   bson:"content"   validate:"required"`
	SentAt   time.Time `json:"sent_at"   bson:"sent_at"`
}

func (m *Message) StampCreate(actor Principal, now time.Time) {
	m.SenderID = actor.AccountID
	m.SentAt = now
}

type MessagePatch struct {
	Content *string `json:"content" bson:"content,omitempty" validate:"omitempty,min=1"`
}

type Forum struct {
	Record      `bson:",inline"`
	Name        string `json:"name"        bson:"name"        validate:"required"`
	Description string `json:"description" bson:"description"`
	SubjectID   int64  `json:"subject_id"  bson:"subject_id"`
}

type ForumPatch struct {
	Name        *string `json:"name"        bson:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string `json:"description" bson:"description,omitempty"`
	SubjectID   *int64  `json:"subject_id"  bson:"subject_id,omitempty"`
}

type Club struct {
	Record      `bson:",inline"`
	Name        string  `json:"name"        bson:"name"        validate:"required"`
	Description string  `json:"description" bson:"description"`
	MemberIDs   []int64 `json:"member_ids"  bson:"member_ids"`
}

type ClubPatch struct {
	Name        *string  `json:"name"        bson:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string  `json:"description" bson:"description,omitempty"`
	MemberIDs   *[]int64 `json:"member_ids"  bson:"member_ids,omitempty"`
}

type Sport struct {
	Record      `bson:",inline"`
	Name        string `json:"name"        bson:"name"        validate:"required"`
	Description string `json:"description" bson:"description"`
}

type SportPatch struct {
	Name        *string `json:"name"        bson:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string `json:"description" bson:"description,omitempty"`
}

type SportsEvent struct {
	Record   `bson:",inline"`
	Name     string `json:"name"     bson:"name"     validate:"required"`
	Date     string `json:"date"     bson:"date"     validate:"omitempty,datetime=2006-01-02"`
	Time     string `json:"time"     bson:"time"     validate:"omitempty,datetime=15:04"`
	Location string `json:"location" bson:"location"`
	SportID  int64  `json:"sport_id" bson:"sport_id"`
}

type SportsEventPatch struct {
	Name     *string `json:"name"     bson:"name,omitempty"     validate:"omitempty,min=1"`
	Date     *string `json:"date"     bson:"date,omitempty"     validate:"omitempty,datetime=2006-01-02"`
	Time     *string `json:"time"     bson:"time,omitempty"     validate:"omitempty,datetime=15:04"`
	Location *string `json:"location" bson:"location,omitempty"`
	SportID  *int64  `json:"sport_id" bson:"sport_id,omitempty"`
}

type Library struct {
	Record      `bson:",inline"`
	Name        string `json:"name"        bson:"name"        validate:"required"`
	Description string `json:"description" bson:"description"`
}

type LibraryPatch struct {
	Name        *string `json:"name"        bson:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string `json:"description" bson:"description,omitempty"`
}

type Book struct {
	Record    `bson:",inline"`
	Title     string `json:"title"      bson:"title"      validate:"required"`
	Author    string `json:"author"     bson:"author"`
	LibraryID int64  `json:"library_id" bson:"library_id"`
}

type BookPatch struct {
	Title     *string `json:"title"      bson:"title,omitempty"      validate:"omitempty,min=1"`
	Author    *string `json:"author"     bson:"author,omitempty"`
	LibraryID *int64  `json:"library_id" bson:"library_id,omitempty"`
}

// CheckoutRecord tracks a book lent to an account. Dates are YYYY-MM-DD.
type CheckoutRecord struct {
	Record       `bson:",inline"`
	BookID       int64  `json:"book_id"       bson:"book_id"       validate:"required"`
	UserID       int64  `json:"user_id"       bson:"user_id"       validate:"required"`
	CheckoutDate string `json:"checkout_date" bson:"checkout_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate      string `json:"due_date"      bson:"due_date"      validate:"omitempty,datetime=2006-01-02"`
}

type CheckoutRecordPatch struct {
	BookID       *int64  `json:"book_id"       bson:"book_id,omitempty"`
	UserID       *int64  `json:"user_id"       bson:"user_id,omitempty"`
	CheckoutDate *string `json:"checkout_date" bson:"checkout_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate      *string `json:"due_date"      bson:"due_date,omitempty"      validate:"omitempty,datetime=2006-01-02"`
}
