package adminValidator

import "coursefront/apiclient"

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindNumber   FieldKind = "number"
	KindInt      FieldKind = "int"
	KindBool     FieldKind = "bool"
	KindCourse   FieldKind = "course"
	KindUser     FieldKind = "user"
	KindFile     FieldKind = "file"
)

// Field describes one input of an admin form. Rules are go-playground tags.
type Field struct {
	Name   string
	Label  string
	Kind   FieldKind
	Rules  string
	Accept string
}

// Resource describes one admin panel
type Resource struct {
	Name      apiclient.Resource
	Title     string
	Singular  string
	Fields    []Field
	Columns   []string
	CanCreate bool
	// lists can be narrowed with ?course=
	ByCourse bool
}

// FileField returns the panel's file-bearing field, if it has one.
func (r *Resource) FileField() *Field {
	for i := range r.Fields {
		if r.Fields[i].Kind == KindFile {
			return &r.Fields[i]
		}
	}
	return nil
}

var resources = []*Resource{
	{
		Name: apiclient.ResourceCourses, Title: "Courses", Singular: "course", CanCreate: true,
		Columns: []string{"id", "title", "price", "is_published"},
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Rules: "required,min=3,max=200"},
			{Name: "description", Label: "Description", Kind: KindTextarea, Rules: "required,min=5"},
			{Name: "duration", Label: "Duration", Kind: KindText, Rules: "max=50"},
			{Name: "price", Label: "Price", Kind: KindNumber, Rules: "gte=0"},
			{Name: "category", Label: "Category id", Kind: KindInt, Rules: "gte=0"},
			{Name: "is_published", Label: "Published", Kind: KindBool},
			{Name: "thumbnail", Label: "Thumbnail", Kind: KindFile, Accept: "image/*"},
		},
	},
	{
		Name: apiclient.ResourceVideos, Title: "Videos", Singular: "video", CanCreate: true, ByCourse: true,
		Columns: []string{"id", "course", "order", "title", "duration"},
		Fields: []Field{
			{Name: "course", Label: "Course", Kind: KindCourse, Rules: "required"},
			{Name: "title", Label: "Title", Kind: KindText, Rules: "required,min=3,max=200"},
			{Name: "description", Label: "Description", Kind: KindTextarea},
			{Name: "duration", Label: "Duration", Kind: KindText, Rules: "max=50"},
			{Name: "order", Label: "Order", Kind: KindInt, Rules: "gte=1"},
			{Name: "video_url", Label: "Video URL", Kind: KindText, Rules: "required,url"},
		},
	},
	{
		Name: apiclient.ResourcePDFs, Title: "PDFs", Singular: "PDF", CanCreate: true, ByCourse: true,
		Columns: []string{"id", "course", "order", "title"},
		Fields: []Field{
			{Name: "course", Label: "Course", Kind: KindCourse, Rules: "required"},
			{Name: "title", Label: "Title", Kind: KindText, Rules: "required,min=3,max=200"},
			{Name: "description", Label: "Description", Kind: KindTextarea},
			{Name: "order", Label: "Order", Kind: KindInt, Rules: "gte=1"},
			{Name: "file", Label: "File", Kind: KindFile, Accept: "application/pdf"},
		},
	},
	{
		Name: apiclient.ResourceUsers, Title: "Users", Singular: "user",
		Columns: []string{"id", "email", "first_name", "last_name", "is_staff"},
		Fields: []Field{
			{Name: "first_name", Label: "First name", Kind: KindText, Rules: "max=150"},
			{Name: "last_name", Label: "Last name", Kind: KindText, Rules: "max=150"},
			{Name: "is_staff", Label: "Staff", Kind: KindBool},
		},
	},
	{
		Name: apiclient.ResourceCertificates, Title: "Certificates", Singular: "certificate", CanCreate: true,
		Columns: []string{"id", "user", "course", "certificate_number", "issued_at"},
		Fields: []Field{
			{Name: "user", Label: "User", Kind: KindUser, Rules: "required"},
			{Name: "course", Label: "Course", Kind: KindCourse, Rules: "required"},
			{Name: "certificate_number", Label: "Certificate number", Kind: KindText, Rules: "max=64"},
			{Name: "custom_template", Label: "Name on certificate", Kind: KindText, Rules: "max=200"},
		},
	},
	{
		Name: apiclient.ResourceReviewPhotos, Title: "Review photos", Singular: "review photo", CanCreate: true,
		Columns: []string{"id", "title", "display_order", "show_on_homepage"},
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Rules: "max=200"},
			{Name: "image", Label: "Image", Kind: KindFile, Accept: "image/*"},
			{Name: "show_on_homepage", Label: "Show on homepage", Kind: KindBool},
			{Name: "display_order", Label: "Display order", Kind: KindInt, Rules: "gte=0"},
		},
	},
}

// Resources lists the panels in menu order
func Resources() []*Resource {
	return resources
}

func Lookup(name string) (*Resource, bool) {
	for _, r := range resources {
		if string(r.Name) == name {
			return r, true
		}
	}
	return nil, false
}
