package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/skillforge/skillforge-backend/config"
	"github.com/skillforge/skillforge-backend/pkg/helpers"
)

// Seeds a demo instructor with one published course (modules, lessons,
// reviews) and prints a development access token for the demo student.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	var instructorID string
	if err := db.QueryRow(`
		INSERT INTO profiles (first_name, last_name, headline, avatar_url)
		VALUES ('Maya', 'Castillo', 'Senior Backend Engineer', '')
		RETURNING id
	`).Scan(&instructorID); err != nil {
		log.Fatalf("failed to seed instructor profile: %v", err)
	}

	var courseID string
	if err := db.QueryRow(`
		INSERT INTO courses (title, description, category, level, price, duration, instructor_id, is_published, is_trending)
		VALUES ('Practical PostgreSQL for Backend Developers',
		        'Schema design, indexing and query tuning with real workloads.',
		        'databases', 'intermediate', 49.99, '8h 30m', $1, true, true)
		RETURNING id
	`, instructorID).Scan(&courseID); err != nil {
		log.Fatalf("failed to seed course: %v", err)
	}

	modules := []struct {
		title, duration string
		lessons         [][2]string // title, type
	}{
		{"Getting Started", "1h 10m", [][2]string{
			{"Why relational modeling still wins", "video"},
			{"Setting up your environment", "reading"},
		}},
		{"Indexes in Practice", "2h 05m", [][2]string{
			{"B-tree fundamentals", "video"},
			{"Partial and covering indexes", "video"},
			{"Index check-in", "quiz"},
		}},
	}
	for mi, m := range modules {
		var moduleID string
		if err := db.QueryRow(`
			INSERT INTO course_modules (course_id, title, duration, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, courseID, m.title, m.duration, mi).Scan(&moduleID); err != nil {
			log.Fatalf("failed to seed module: %v", err)
		}
		for li, l := range m.lessons {
			if _, err := db.Exec(`
				INSERT INTO course_lessons (module_id, title, lesson_type, duration, position)
				VALUES ($1, $2, $3, '25m', $4)
			`, moduleID, l[0], l[1], li); err != nil {
				log.Fatalf("failed to seed lesson: %v", err)
			}
		}
	}

	for _, s := range []string{"Design normalized schemas", "Read query plans with confidence"} {
		if _, err := db.Exec(`
			INSERT INTO course_objectives (course_id, objective, position)
			VALUES ($1, $2, (SELECT COALESCE(MAX(position), -1) + 1 FROM course_objectives WHERE course_id = $1))
		`, courseID, s); err != nil {
			log.Fatalf("failed to seed objective: %v", err)
		}
	}

	var studentID string
	if err := db.QueryRow(`
		INSERT INTO profiles (first_name, last_name, avatar_url)
		VALUES ('Demo', 'Student', '')
		RETURNING id
	`).Scan(&studentID); err != nil {
		log.Fatalf("failed to seed student profile: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO course_reviews (course_id, reviewer_id, rating, comment)
		VALUES ($1, $2, 5, 'Exactly the depth I was looking for.')
	`, courseID, studentID); err != nil {
		log.Fatalf("failed to seed review: %v", err)
	}

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)
	token, exp, err := jwtManager.GenerateAccessToken(studentID)
	if err != nil {
		log.Fatalf("failed to generate dev token: %v", err)
	}

	fmt.Printf("seeded course: id=%s instructor=%s\n", courseID, instructorID)
	fmt.Printf("demo student: id=%s\n", studentID)
	fmt.Printf("dev access token (expires %s):\n%s\n", exp.Format("2006-01-02 15:04"), token)
}
