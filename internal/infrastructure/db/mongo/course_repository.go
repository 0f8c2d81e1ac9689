package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edumarket/course-api/internal/core/domain"
	"github.com/edumarket/course-api/internal/core/ports"
)

const collectionCourses = "courses"

type CourseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection(collectionCourses)}
}

type mongoCourse struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Instructor  primitive.ObjectID `bson:"instructor,omitempty"`
	Students    []string           `bson:"students"`
}

func (mc *mongoCourse) toDomain() *domain.Course {
	c := &domain.Course{
		ID:          mc.ID.Hex(),
		Title:       mc.Title,
		Description: mc.Description,
		Price:       mc.Price,
		Students:    mc.Students,
	}
	if !mc.Instructor.IsZero() {
		c.Instructor = mc.Instructor.Hex()
	}
	if c.Students == nil {
		c.Students = []string{}
	}
	return c
}

// Create inserts a new course document.
func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	instructor, err := primitive.ObjectIDFromHex(c.Instructor)
	if err != nil {
		return nil, fmt.Errorf("instructor id %q: %w", c.Instructor, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCourse{
		ID:          primitive.NewObjectID(),
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		Instructor:  instructor,
		Students:    append([]string{}, c.Students...),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a course. Ids that are not valid ObjectIDs cannot name a
// stored course and are reported as domain.ErrCourseNotFound.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCourseNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCourse
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return mc.toDomain(), nil
}

// Find returns every course matching filter in insertion order.
func (r *CourseRepository) Find(ctx context.Context, filter ports.CourseFilter) ([]*domain.Course, error) {
	query, ok := buildFilter(filter)
	if !ok {
		return []*domain.Course{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}

	var docs []mongoCourse
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}

	out := make([]*domain.Course, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// AppendStudent pushes studentID onto the course's students in one atomic
// update. Existing entries are not checked.
func (r *CourseRepository) AppendStudent(ctx context.Context, courseID, studentID string) error {
	oid, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return domain.ErrCourseNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"students": studentID}})
	if err != nil {
		return fmt.Errorf("append student: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// Update sets the non-nil fields and returns the document after the update.
func (r *CourseRepository) Update(ctx context.Context, id string, fields ports.CourseFields) (*domain.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCourseNotFound
	}

	set := bson.M{}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Price != nil {
		set["price"] = *fields.Price
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mc mongoCourse
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCourseNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes behind the course listing filters.
func (r *CourseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "instructor", Value: 1}}},
		{Keys: bson.D{{Key: "students", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// buildFilter translates a CourseFilter into a Mongo query. It reports false
// when the filter names an instructor id that cannot match any document.
func buildFilter(f ports.CourseFilter) (bson.M, bool) {
	query := bson.M{}
	if f.InstructorID != "" {
		oid, err := primitive.ObjectIDFromHex(f.InstructorID)
		if err != nil {
			return nil, false
		}
		query["instructor"] = oid
	}
	if f.StudentID != "" {
		query["students"] = f.StudentID
	}
	if f.Title != "" {
		query["title"] = f.Title
	}
	return query, true
}
