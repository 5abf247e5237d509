package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

const selectProfile = `
SELECT p.id, p.user_id, u.name, u.avatar, p.company, p.website, p.location, p.bio,
	p.status, p.github_username, p.skills, p.social, p.created_at, p.updated_at
FROM profiles p
JOIN users u ON u.id = p.user_id`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert relies on the unique user_id constraint: a single statement either
// inserts the profile or merges the fields into the existing row.
func (r *ProfileRepository) Upsert(ctx context.Context, userID domain.ID, fields domain.ProfileFields) (*domain.Profile, error) {
	skills := fields.Skills
	if skills == nil {
		skills = []string{}
	}
	social := fields.Social
	if social == nil {
		social = map[string]string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}
	socialJSON, err := json.Marshal(social)
	if err != nil {
		return nil, fmt.Errorf("encode social: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
INSERT INTO profiles (id, user_id, company, website, location, bio, status, github_username, skills, social, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	company = CASE WHEN excluded.company = '' THEN profiles.company ELSE excluded.company END,
	website = CASE WHEN excluded.website = '' THEN profiles.website ELSE excluded.website END,
	location = CASE WHEN excluded.location = '' THEN profiles.location ELSE excluded.location END,
	bio = CASE WHEN excluded.bio = '' THEN profiles.bio ELSE excluded.bio END,
	status = CASE WHEN excluded.status = '' THEN profiles.status ELSE excluded.status END,
	github_username = CASE WHEN excluded.github_username = '' THEN profiles.github_username ELSE excluded.github_username END,
	skills = CASE WHEN excluded.skills = '[]' THEN profiles.skills ELSE excluded.skills END,
	social = excluded.social,
	updated_at = excluded.updated_at`,
		string(domain.NewID()),
		string(userID),
		fields.Company,
		fields.Website,
		fields.Location,
		fields.Bio,
		fields.Status,
		fields.GitHubUsername,
		string(skillsJSON),
		string(socialJSON),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return r.GetByUser(ctx, userID)
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID domain.ID) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, selectProfile+`
WHERE p.user_id = ?`,
		string(userID),
	)
	profile, profileID, err := scanProfile(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadLists(ctx, profileID, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, selectProfile+`
ORDER BY p.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var (
		profiles []domain.Profile
		ids      []string
	)
	for rows.Next() {
		profile, profileID, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
		ids = append(ids, profileID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	rows.Close()

	for i := range profiles {
		if err := r.loadLists(ctx, ids[i], &profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

func (r *ProfileRepository) AddExperience(ctx context.Context, userID domain.ID, entry domain.Experience) error {
	if entry.ID.IsZero() {
		entry.ID = domain.NewID()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO experiences (id, profile_id, title, company, location, from_date, to_date, is_current, description)
SELECT ?, id, ?, ?, ?, ?, ?, ?, ?
FROM profiles
WHERE user_id = ?`,
		string(entry.ID),
		entry.Title,
		entry.Company,
		entry.Location,
		entry.From,
		nullTime(entry.To),
		entry.Current,
		entry.Description,
		string(userID),
	)
	if err != nil {
		return fmt.Errorf("insert experience: %w", err)
	}
	return expectAffected(res, "profile")
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID, entryID domain.ID) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM experiences
WHERE id = ? AND profile_id = (SELECT id FROM profiles WHERE user_id = ?)`,
		string(entryID),
		string(userID),
	)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	return expectAffected(res, "experience")
}

func (r *ProfileRepository) AddEducation(ctx context.Context, userID domain.ID, entry domain.Education) error {
	if entry.ID.IsZero() {
		entry.ID = domain.NewID()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO educations (id, profile_id, school, degree, field_of_study, from_date, to_date, is_current, description)
SELECT ?, id, ?, ?, ?, ?, ?, ?, ?
FROM profiles
WHERE user_id = ?`,
		string(entry.ID),
		entry.School,
		entry.Degree,
		entry.FieldOfStudy,
		entry.From,
		nullTime(entry.To),
		entry.Current,
		entry.Description,
		string(userID),
	)
	if err != nil {
		return fmt.Errorf("insert education: %w", err)
	}
	return expectAffected(res, "profile")
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID, entryID domain.ID) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM educations
WHERE id = ? AND profile_id = (SELECT id FROM profiles WHERE user_id = ?)`,
		string(entryID),
		string(userID),
	)
	if err != nil {
		return fmt.Errorf("delete education: %w", err)
	}
	return expectAffected(res, "education")
}

func (r *ProfileRepository) loadLists(ctx context.Context, profileID string, profile *domain.Profile) error {
	experience, err := r.listExperience(ctx, profileID)
	if err != nil {
		return err
	}
	education, err := r.listEducation(ctx, profileID)
	if err != nil {
		return err
	}
	profile.Experience = experience
	profile.Education = education
	return nil
}

func (r *ProfileRepository) listExperience(ctx context.Context, profileID string) ([]domain.Experience, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, company, location, from_date, to_date, is_current, description
FROM experiences
WHERE profile_id = ?
ORDER BY seq DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	defer rows.Close()

	entries := []domain.Experience{}
	for rows.Next() {
		var (
			entry domain.Experience
			id    string
			to    sql.NullTime
		)
		if err := rows.Scan(&id, &entry.Title, &entry.Company, &entry.Location, &entry.From, &to, &entry.Current, &entry.Description); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		entry.ID = domain.ID(id)
		entry.To = timePtr(to)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experience: %w", err)
	}
	return entries, nil
}

func (r *ProfileRepository) listEducation(ctx context.Context, profileID string) ([]domain.Education, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, school, degree, field_of_study, from_date, to_date, is_current, description
FROM educations
WHERE profile_id = ?
ORDER BY seq DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	defer rows.Close()

	entries := []domain.Education{}
	for rows.Next() {
		var (
			entry domain.Education
			id    string
			to    sql.NullTime
		)
		if err := rows.Scan(&id, &entry.School, &entry.Degree, &entry.FieldOfStudy, &entry.From, &to, &entry.Current, &entry.Description); err != nil {
			return nil, fmt.Errorf("scan education: %w", err)
		}
		entry.ID = domain.ID(id)
		entry.To = timePtr(to)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate education: %w", err)
	}
	return entries, nil
}

func scanProfile(row rowScanner) (*domain.Profile, string, error) {
	var (
		profile    domain.Profile
		id, userID string
		skills     string
		social     string
	)
	if err := row.Scan(
		&id,
		&userID,
		&profile.User.Name,
		&profile.User.Avatar,
		&profile.Company,
		&profile.Website,
		&profile.Location,
		&profile.Bio,
		&profile.Status,
		&profile.GitHubUsername,
		&skills,
		&social,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", fmt.Errorf("profile: %w", repository.ErrNotFound)
		}
		return nil, "", fmt.Errorf("scan profile: %w", err)
	}
	profile.ID = domain.ID(id)
	profile.User.ID = domain.ID(userID)
	if err := json.Unmarshal([]byte(skills), &profile.Skills); err != nil {
		return nil, "", fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal([]byte(social), &profile.Social); err != nil {
		return nil, "", fmt.Errorf("decode social: %w", err)
	}
	return &profile, id, nil
}

func expectAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
