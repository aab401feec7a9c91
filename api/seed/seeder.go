package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"Warbler/api/models"
	"Warbler/api/security"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result counts the rows inserted by a load.
type Result struct {
	Users    int
	Messages int
	Follows  int
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load reads users.csv, messages.csv and follows.csv from dir. Only
// users.csv is mandatory.
//
// User ids inside messages.csv and follows.csv are 1-based row numbers of
// users.csv, so files can be loaded into a database that already has rows.
func Load(db *gorm.DB, dir string) (Result, error) {
	users, err := os.Open(filepath.Join(dir, "users.csv"))
	if err != nil {
		return Result{}, err
	}
	defer users.Close()

	messages, err := openOptional(filepath.Join(dir, "messages.csv"))
	if err != nil {
		return Result{}, err
	}
	if messages != nil {
		defer messages.Close()
	}

	follows, err := openOptional(filepath.Join(dir, "follows.csv"))
	if err != nil {
		return Result{}, err
	}
	if follows != nil {
		defer follows.Close()
	}

	return LoadFrom(db, users, readerOrNil(messages), readerOrNil(follows))
}

func openOptional(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return f, err
}

func readerOrNil(f *os.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}

// LoadFrom inserts everything in a single transaction. messages and
// follows may be nil.
func LoadFrom(db *gorm.DB, users, messages, follows io.Reader) (Result, error) {
	var result Result

	err := db.Transaction(func(tx *gorm.DB) error {
		ids, err := loadUsers(tx, users)
		if err != nil {
			return err
		}
		result.Users = len(ids)

		if messages != nil {
			if result.Messages, err = loadMessages(tx, messages, ids); err != nil {
				return err
			}
		}
		if follows != nil {
			if result.Follows, err = loadFollows(tx, follows, ids); err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func readTable(name string, r io.Reader, required ...string) (*table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header", name)
	}

	t := &table{name: name, columns: map[string]int{}, rows: records[1:]}
	for i, col := range records[0] {
		t.columns[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", name, col)
		}
	}
	return t, nil
}

func (t *table) get(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// lookup maps a 1-based users.csv row number to the inserted id.
func (t *table) lookup(row []string, col string, ids []uint, line int) (uint, error) {
	n, err := strconv.Atoi(t.get(row, col))
	if err != nil || n < 1 || n > len(ids) {
		return 0, fmt.Errorf("%s line %d: unknown user %q", t.name, line, t.get(row, col))
	}
	return ids[n-1], nil
}

func loadUsers(tx *gorm.DB, r io.Reader) ([]uint, error) {
	t, err := readTable("users.csv", r, "username", "email", "password")
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(t.rows))
	for i, row := range t.rows {
		password := t.get(row, "password")
		if password == "" {
			return nil, fmt.Errorf("users.csv line %d: %w", i+2, models.ErrInvalidPassword)
		}
		if !security.IsHash(password) {
			hashed, err := security.Hash(password)
			if err != nil {
				return nil, fmt.Errorf("users.csv line %d: %w", i+2, err)
			}
			password = string(hashed)
		}

		user := models.User{
			Username:       t.get(row, "username"),
			Email:          t.get(row, "email"),
			Password:       password,
			ImageURL:       t.get(row, "image_url"),
			HeaderImageURL: t.get(row, "header_image_url"),
			Bio:            t.get(row, "bio"),
			Location:       t.get(row, "location"),
		}
		user.Prepare()
		users = append(users, user)
	}

	if len(users) == 0 {
		return nil, nil
	}
	if err := tx.Omit(clause.Associations).CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("users.csv: %w", err)
	}

	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	return ids, nil
}

func loadMessages(tx *gorm.DB, r io.Reader, ids []uint) (int, error) {
	t, err := readTable("messages.csv", r, "text", "user_id")
	if err != nil {
		return 0, err
	}

	messages := make([]models.Message, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		userID, err := t.lookup(row, "user_id", ids, line)
		if err != nil {
			return 0, err
		}

		msg := models.Message{Text: t.get(row, "text"), UserID: userID}
		msg.Prepare()
		if utf8.RuneCountInString(msg.Text) > models.MaxMessageLength {
			return 0, fmt.Errorf("messages.csv line %d: text longer than %d characters", line, models.MaxMessageLength)
		}
		if raw := t.get(row, "timestamp"); raw != "" {
			if msg.Timestamp, err = parseTimestamp(raw); err != nil {
				return 0, fmt.Errorf("messages.csv line %d: %w", line, err)
			}
		}
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		return 0, nil
	}
	if err := tx.Omit(clause.Associations).CreateInBatches(&messages, 500).Error; err != nil {
		return 0, fmt.Errorf("messages.csv: %w", err)
	}
	return len(messages), nil
}

func loadFollows(tx *gorm.DB, r io.Reader, ids []uint) (int, error) {
	t, err := readTable("follows.csv", r, "user_being_followed_id", "user_following_id")
	if err != nil {
		return 0, err
	}

	seen := make(map[[2]uint]bool, len(t.rows))
	follows := make([]models.Follow, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		followed, err := t.lookup(row, "user_being_followed_id", ids, line)
		if err != nil {
			return 0, err
		}
		follower, err := t.lookup(row, "user_following_id", ids, line)
		if err != nil {
			return 0, err
		}

		key := [2]uint{follower, followed}
		if follower == followed || seen[key] {
			continue
		}
		seen[key] = true
		follows = append(follows, models.Follow{FollowerID: follower, FollowedID: followed})
	}

	if len(follows) == 0 {
		return 0, nil
	}
	result := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&follows, 500)
	if result.Error != nil {
		return 0, fmt.Errorf("follows.csv: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}
