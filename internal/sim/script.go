package sim

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mydigitalpro/toctoc-feed/internal/dto"
)

// Scenario defines one deterministic feed session: the backend fixtures,
// failure injections, and the ordered script of gestures, clock advances
// and completion flushes.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Videos are the backend feed fixtures, served in order in pages of
	// PageSize.
	Videos []VideoFixture `yaml:"videos"`

	// PageSize is the number of videos per feed page. 0 uses the
	// runner's configured default.
	PageSize int `yaml:"page_size,omitempty"`

	// Comments maps video id to that video's backend comment fixtures.
	Comments map[string][]CommentFixture `yaml:"comments,omitempty"`

	// AuthToken is the initial auth token. Empty means signed out.
	AuthToken string `yaml:"auth_token,omitempty"`

	// Failures injects transport failures: operation name to how many
	// consecutive calls fail before the operation recovers. Operations:
	// feed, like, unlike, share, comments, add_comment, comment_like,
	// like_count, share_count.
	Failures map[string]int `yaml:"failures,omitempty"`

	// Steps is the session script, executed in order.
	Steps []Step `yaml:"steps"`
}

// VideoFixture is the scenario-file shape of one backend video. It is
// deliberately flatter than the wire payload; ToDTO fills in the rest.
type VideoFixture struct {
	ID          int64  `yaml:"id"`
	URL         string `yaml:"url"`
	HLSURL      string `yaml:"hls_url,omitempty"`
	Description string `yaml:"description,omitempty"`
	AuthorID    int64  `yaml:"author_id,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Status      string `yaml:"status,omitempty"`
	Likes       int    `yaml:"likes,omitempty"`
	Comments    int    `yaml:"comments,omitempty"`
	Shares      int    `yaml:"shares,omitempty"`
	Liked       bool   `yaml:"liked,omitempty"`
}

// ToDTO expands the fixture into the wire payload the backend stub
// serves.
func (f VideoFixture) ToDTO() dto.Video {
	status := f.Status
	if status == "" {
		status = string(feedStatusPublished)
	}
	return dto.Video{
		ID:                 f.ID,
		Description:        f.Description,
		VideoURL:           f.URL,
		HLSPlaylistURL:     f.HLSURL,
		UserID:             f.AuthorID,
		Status:             status,
		LikedByCurrentUser: f.Liked,
		LikeCount:          f.Likes,
		CommentCount:       f.Comments,
		ShareCount:         f.Shares,
		UserPseudo:         f.Author,
	}
}

// CommentFixture is the scenario-file shape of one backend comment.
type CommentFixture struct {
	ID        int64  `yaml:"id"`
	Author    string `yaml:"author"`
	AuthorID  int64  `yaml:"author_id,omitempty"`
	Content   string `yaml:"content"`
	CreatedAt string `yaml:"created_at"` // RFC3339
	Liked     bool   `yaml:"liked,omitempty"`
}

// ToDTO expands the fixture into the wire payload.
func (f CommentFixture) ToDTO() dto.Comment {
	return dto.Comment{
		ID:                 f.ID,
		UserID:             f.AuthorID,
		Content:            f.Content,
		CreatedAt:          f.CreatedAt,
		LikedByCurrentUser: f.Liked,
		UserProfile: &dto.UserProfile{
			ID:    f.AuthorID,
			Login: f.Author,
		},
	}
}

// Step is one scripted action. Op selects the action; only the fields
// relevant to that op are read.
//
// Ops:
//
//	scroll          - report viewability (Index fully visible, or Entries)
//	advance         - advance the clock by For and deliver a tick
//	flush           - run Count pending backend completions (0 = all)
//	tap             - play/pause toggle
//	like            - toggle like on Video
//	share           - record a share of Video on Platform
//	open_comments   - open the thread for Video
//	close_comments  - close the open thread
//	add_comment     - submit Text to Video's thread
//	comment_like    - toggle like on Comment
//	load_more       - request the next feed page
//	retry           - retry failed playback of Video
//	playback_ended  - deliver an end-of-media event for Video
//	playback_error  - deliver a playback error for Video
//	auth            - swap the auth token to Token (empty signs out)
//	snapshot        - record observable screen state into the trace
type Step struct {
	Op string `yaml:"op"`

	Index    int         `yaml:"index,omitempty"`
	Entries  []EntrySpec `yaml:"entries,omitempty"`
	For      Duration    `yaml:"for,omitempty"`
	Count    int         `yaml:"count,omitempty"`
	Video    string      `yaml:"video,omitempty"`
	Comment  string      `yaml:"comment,omitempty"`
	Text     string      `yaml:"text,omitempty"`
	Platform string      `yaml:"platform,omitempty"`
	Token    string      `yaml:"token,omitempty"`
}

// EntrySpec is one visible list entry in a scroll step.
type EntrySpec struct {
	Index    int     `yaml:"index"`
	Fraction float64 `yaml:"fraction"`
}

// Duration wraps time.Duration with YAML support for the usual "300ms"
// notation.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("sim: bad duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

const feedStatusPublished = "PUBLISHED"

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML. Unknown fields are rejected so
// typos in scripts fail loudly instead of silently no-oping.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("sim: parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

var knownOps = map[string]bool{
	"scroll":         true,
	"advance":        true,
	"flush":          true,
	"tap":            true,
	"like":           true,
	"share":          true,
	"open_comments":  true,
	"close_comments": true,
	"add_comment":    true,
	"comment_like":   true,
	"load_more":      true,
	"retry":          true,
	"playback_ended": true,
	"playback_error": true,
	"auth":           true,
	"snapshot":       true,
}

// Validate checks structural validity of the scenario.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("sim: scenario has no name")
	}
	for i, v := range s.Videos {
		d := v.ToDTO()
		if err := d.Validate(); err != nil {
			return fmt.Errorf("sim: scenario %q video %d: %w", s.Name, i, err)
		}
	}
	for i, st := range s.Steps {
		if !knownOps[st.Op] {
			return fmt.Errorf("sim: scenario %q step %d: unknown op %q", s.Name, i, st.Op)
		}
	}
	return nil
}
