package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/thornquist/loreweaver/internal/storage"
	"github.com/thornquist/loreweaver/pkg/types"
)

// WorldStore implements storage.WorldStore using SQLite.
type WorldStore struct {
	db *sql.DB
}

// NewWorldStore opens a SQLite database, configures WAL mode, and creates the
// schema. Pass ":memory:" for an ephemeral store (used heavily in tests).
func NewWorldStore(dsn string) (*WorldStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Using a single open
	// connection serialises writes and avoids SQLITE_BUSY errors under
	// concurrent load. WAL mode lets readers proceed without blocking the
	// writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &WorldStore{db: db}, nil
}

// GetDB exposes the underlying database connection for callers that need
// direct access (server wiring, maintenance).
func (s *WorldStore) GetDB() *sql.DB {
	return s.db
}

// Close releases the database connection.
func (s *WorldStore) Close() error {
	return s.db.Close()
}

// marshalJSON marshals v to JSON, returning nil for nil input so that empty
// collections round-trip as SQL NULL.
func marshalJSON(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON column: %w", err)
	}
	return data, nil
}

// unmarshalStrings decodes a JSON string array column, tolerating NULL.
func unmarshalStrings(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal string array column: %w", err)
	}
	return out, nil
}

// --- CharacterStore ---

// StoreCharacter creates or updates a character (upsert semantics).
func (s *WorldStore) StoreCharacter(ctx context.Context, character *types.Character) error {
	if character == nil {
		return storage.ErrInvalidInput
	}
	if character.ID == "" {
		return fmt.Errorf("%w: character ID is required", storage.ErrInvalidInput)
	}
	if character.Name == "" {
		return fmt.Errorf("%w: character name is required", storage.ErrInvalidInput)
	}

	if character.CreatedAt.IsZero() {
		character.CreatedAt = time.Now()
	}
	character.UpdatedAt = time.Now()
	if character.Role == "" {
		character.Role = types.RoleCustom
	}
	if character.Level == 0 {
		character.Level = 1
	}

	speechJSON, err := marshalJSON(character.SpeechPatterns)
	if err != nil {
		return err
	}
	domainsJSON, err := marshalJSON(character.KnowledgeDomains)
	if err != nil {
		return err
	}
	moodJSON, err := marshalJSON(character.CurrentMood)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO characters (
			id, name, role, description, personality_prompt, backstory,
			location, speech_patterns, knowledge_domains, current_mood,
			alignment, race, level, experience_points, avatar_url, is_active,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			description = excluded.description,
			personality_prompt = excluded.personality_prompt,
			backstory = excluded.backstory,
			location = excluded.location,
			speech_patterns = excluded.speech_patterns,
			knowledge_domains = excluded.knowledge_domains,
			current_mood = excluded.current_mood,
			alignment = excluded.alignment,
			race = excluded.race,
			level = excluded.level,
			experience_points = excluded.experience_points,
			avatar_url = excluded.avatar_url,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		character.ID, character.Name, string(character.Role), character.Description,
		character.PersonalityPrompt, character.Backstory, character.Location,
		speechJSON, domainsJSON, moodJSON,
		character.Alignment, character.Race, character.Level,
		character.ExperiencePoints, character.AvatarURL, character.IsActive,
		character.CreatedAt, character.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store character: %w", err)
	}
	return nil
}

// characterColumns is the shared SELECT column list for character scans.
const characterColumns = `
	id, name, role, description, personality_prompt, backstory, location,
	speech_patterns, knowledge_domains, current_mood, alignment, race,
	level, experience_points, avatar_url, is_active, created_at, updated_at
`

func scanCharacter(scan func(...interface{}) error) (*types.Character, error) {
	var (
		c                                      types.Character
		role                                   string
		description, personality, backstory    sql.NullString
		location, race, avatarURL              sql.NullString
		speechRaw, domainsRaw, moodRaw         sql.NullString
	)

	err := scan(
		&c.ID, &c.Name, &role, &description, &personality, &backstory,
		&location, &speechRaw, &domainsRaw, &moodRaw, &c.Alignment, &race,
		&c.Level, &c.ExperiencePoints, &avatarURL, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Role = types.CharacterRole(role)
	c.Description = description.String
	c.PersonalityPrompt = personality.String
	c.Backstory = backstory.String
	c.Location = location.String
	c.Race = race.String
	c.AvatarURL = avatarURL.String

	if c.SpeechPatterns, err = unmarshalStrings(speechRaw); err != nil {
		return nil, err
	}
	if c.KnowledgeDomains, err = unmarshalStrings(domainsRaw); err != nil {
		return nil, err
	}
	if moodRaw.Valid && moodRaw.String != "" {
		if err := json.Unmarshal([]byte(moodRaw.String), &c.CurrentMood); err != nil {
			return nil, fmt.Errorf("failed to unmarshal current_mood: %w", err)
		}
	}

	return &c, nil
}

// GetCharacter retrieves a character by ID.
func (s *WorldStore) GetCharacter(ctx context.Context, id string) (*types.Character, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+characterColumns+" FROM characters WHERE id = ?", id)

	character, err := scanCharacter(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return character, nil
}

// ListCharacters returns all active characters ordered by creation time ascending.
func (s *WorldStore) ListCharacters(ctx context.Context) ([]*types.Character, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+characterColumns+" FROM characters WHERE is_active = 1 ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	var characters []*types.Character
	for rows.Next() {
		character, err := scanCharacter(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		characters = append(characters, character)
	}
	return characters, rows.Err()
}

// UpdateCharacterMood overwrites a character's current mood (last write wins).
func (s *WorldStore) UpdateCharacterMood(ctx context.Context, id string, mood types.Mood) error {
	moodJSON, err := marshalJSON(mood)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE characters SET current_mood = ?, updated_at = ? WHERE id = ?",
		moodJSON, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update character mood: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- ConversationStore ---

// StoreConversation creates or updates a conversation (upsert semantics).
func (s *WorldStore) StoreConversation(ctx context.Context, conversation *types.Conversation) error {
	if conversation == nil {
		return storage.ErrInvalidInput
	}
	if conversation.ID == "" {
		return fmt.Errorf("%w: conversation ID is required", storage.ErrInvalidInput)
	}
	if conversation.UserID == "" || conversation.CharacterID == "" {
		return fmt.Errorf("%w: conversation user and character are required", storage.ErrInvalidInput)
	}

	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now()
	}
	conversation.UpdatedAt = time.Now()

	metadataJSON, err := marshalJSON(conversation.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO conversations (
			id, user_id, character_id, is_active, summary, metadata,
			last_message_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_active = excluded.is_active,
			summary = excluded.summary,
			metadata = excluded.metadata,
			last_message_at = excluded.last_message_at,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		conversation.ID, conversation.UserID, conversation.CharacterID,
		conversation.IsActive, conversation.Summary, metadataJSON,
		conversation.LastMessageAt, conversation.CreatedAt, conversation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store conversation: %w", err)
	}
	return nil
}

const conversationColumns = `
	id, user_id, character_id, is_active, summary, metadata,
	last_message_at, created_at, updated_at
`

func scanConversation(scan func(...interface{}) error) (*types.Conversation, error) {
	var (
		c             types.Conversation
		summary       sql.NullString
		metadataRaw   sql.NullString
		lastMessageAt sql.NullTime
	)

	err := scan(
		&c.ID, &c.UserID, &c.CharacterID, &c.IsActive, &summary,
		&metadataRaw, &lastMessageAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Summary = summary.String
	if metadataRaw.Valid && metadataRaw.String != "" {
		if err := json.Unmarshal([]byte(metadataRaw.String), &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conversation metadata: %w", err)
		}
	}
	if lastMessageAt.Valid {
		t := lastMessageAt.Time
		c.LastMessageAt = &t
	}

	return &c, nil
}

// GetConversation retrieves a conversation by ID.
func (s *WorldStore) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE id = ?", id)

	conversation, err := scanConversation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

// FindActiveConversation returns the active conversation for a (user, character)
// pair, or ErrNotFound when none exists.
func (s *WorldStore) FindActiveConversation(ctx context.Context, userID, characterID string) (*types.Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+conversationColumns+` FROM conversations
		 WHERE user_id = ? AND character_id = ? AND is_active = 1
		 LIMIT 1`, userID, characterID)

	conversation, err := scanConversation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active conversation: %w", err)
	}
	return conversation, nil
}

// ListUserConversations returns a user's active conversations, most recently
// messaged first.
func (s *WorldStore) ListUserConversations(ctx context.Context, userID string) ([]*types.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+conversationColumns+` FROM conversations
		 WHERE user_id = ? AND is_active = 1
		 ORDER BY last_message_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*types.Conversation
	for rows.Next() {
		conversation, err := scanConversation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conversation)
	}
	return conversations, rows.Err()
}

// --- MessageStore ---

// StoreMessage persists a new message. Messages are immutable once created,
// so this is a plain INSERT rather than an upsert.
func (s *WorldStore) StoreMessage(ctx context.Context, message *types.Message) error {
	if message == nil {
		return storage.ErrInvalidInput
	}
	if message.ID == "" || message.ConversationID == "" {
		return fmt.Errorf("%w: message ID and conversation are required", storage.ErrInvalidInput)
	}
	if message.Content == "" {
		return fmt.Errorf("%w: message content is required", storage.ErrInvalidInput)
	}

	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	var metadataJSON []byte
	if message.Metadata != nil {
		var err error
		metadataJSON, err = marshalJSON(message.Metadata)
		if err != nil {
			return err
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender, content, metadata, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		message.ID, message.ConversationID, string(message.Sender),
		message.Content, metadataJSON, message.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// ListMessages returns a conversation's messages ordered by timestamp ascending.
func (s *WorldStore) ListMessages(ctx context.Context, conversationID string, opts storage.MessageListOptions) ([]*types.Message, error) {
	query := `
		SELECT id, conversation_id, sender, content, metadata, timestamp
		FROM messages
		WHERE conversation_id = ?
		ORDER BY timestamp ASC`
	args := []interface{}{conversationID}

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*types.Message
	for rows.Next() {
		var (
			m           types.Message
			sender      string
			metadataRaw sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &sender, &m.Content, &metadataRaw, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Sender = types.SenderType(sender)
		if metadataRaw.Valid && metadataRaw.String != "" {
			var meta types.MessageMetadata
			if err := json.Unmarshal([]byte(metadataRaw.String), &meta); err != nil {
				return nil, fmt.Errorf("failed to unmarshal message metadata: %w", err)
			}
			m.Metadata = &meta
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// CountMessages returns the number of messages in a conversation.
func (s *WorldStore) CountMessages(ctx context.Context, conversationID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE conversation_id = ?", conversationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// --- QuestStore ---

// StoreQuest creates or updates a quest (upsert semantics).
func (s *WorldStore) StoreQuest(ctx context.Context, quest *types.Quest) error {
	if quest == nil {
		return storage.ErrInvalidInput
	}
	if quest.ID == "" {
		return fmt.Errorf("%w: quest ID is required", storage.ErrInvalidInput)
	}
	if quest.UserID == "" || quest.CharacterID == "" {
		return fmt.Errorf("%w: quest user and character are required", storage.ErrInvalidInput)
	}

	if quest.CreatedAt.IsZero() {
		quest.CreatedAt = time.Now()
	}
	quest.UpdatedAt = time.Now()
	if quest.Status == "" {
		quest.Status = types.QuestOffered
	}

	objectivesJSON, err := marshalJSON(quest.Objectives)
	if err != nil {
		return err
	}
	rewardsJSON, err := marshalJSON(quest.Rewards)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO quests (
			id, user_id, character_id, title, description, difficulty,
			status, progress, objectives, rewards, completed_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			difficulty = excluded.difficulty,
			status = excluded.status,
			progress = excluded.progress,
			objectives = excluded.objectives,
			rewards = excluded.rewards,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		quest.ID, quest.UserID, quest.CharacterID, quest.Title,
		quest.Description, string(quest.Difficulty), string(quest.Status),
		quest.Progress, objectivesJSON, rewardsJSON, quest.CompletedAt,
		quest.CreatedAt, quest.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store quest: %w", err)
	}
	return nil
}

const questColumns = `
	id, user_id, character_id, title, description, difficulty, status,
	progress, objectives, rewards, completed_at, created_at, updated_at
`

func scanQuest(scan func(...interface{}) error) (*types.Quest, error) {
	var (
		q                          types.Quest
		difficulty, status         string
		objectivesRaw, rewardsRaw  sql.NullString
		completedAt                sql.NullTime
	)

	err := scan(
		&q.ID, &q.UserID, &q.CharacterID, &q.Title, &q.Description,
		&difficulty, &status, &q.Progress, &objectivesRaw, &rewardsRaw,
		&completedAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	q.Difficulty = types.QuestDifficulty(difficulty)
	q.Status = types.QuestStatus(status)
	if objectivesRaw.Valid && objectivesRaw.String != "" {
		if err := json.Unmarshal([]byte(objectivesRaw.String), &q.Objectives); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quest objectives: %w", err)
		}
	}
	if rewardsRaw.Valid && rewardsRaw.String != "" {
		if err := json.Unmarshal([]byte(rewardsRaw.String), &q.Rewards); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quest rewards: %w", err)
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		q.CompletedAt = &t
	}

	return &q, nil
}

// GetQuest retrieves a quest by ID.
func (s *WorldStore) GetQuest(ctx context.Context, id string) (*types.Quest, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+questColumns+" FROM quests WHERE id = ?", id)

	quest, err := scanQuest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}
	return quest, nil
}

// ListUserQuests returns a user's quests newest first, optionally filtered by status.
func (s *WorldStore) ListUserQuests(ctx context.Context, userID string, filter storage.QuestFilter) ([]*types.Quest, error) {
	query := "SELECT " + questColumns + " FROM quests WHERE user_id = ?"
	args := []interface{}{userID}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}
	defer rows.Close()

	var quests []*types.Quest
	for rows.Next() {
		quest, err := scanQuest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quest: %w", err)
		}
		quests = append(quests, quest)
	}
	return quests, rows.Err()
}

// --- EventStore ---

// StoreEvent creates or updates a world event (upsert semantics).
func (s *WorldStore) StoreEvent(ctx context.Context, event *types.WorldEvent) error {
	if event == nil {
		return storage.ErrInvalidInput
	}
	if event.ID == "" {
		return fmt.Errorf("%w: event ID is required", storage.ErrInvalidInput)
	}
	if event.Name == "" {
		return fmt.Errorf("%w: event name is required", storage.ErrInvalidInput)
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.UpdatedAt = time.Now()
	if event.Severity == "" {
		event.Severity = types.SeverityLow
	}

	locationsJSON, err := marshalJSON(event.AffectedLocations)
	if err != nil {
		return err
	}
	charactersJSON, err := marshalJSON(event.AffectedCharacterIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO world_events (
			id, name, description, severity, affected_locations,
			affected_character_ids, is_active, expires_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			severity = excluded.severity,
			affected_locations = excluded.affected_locations,
			affected_character_ids = excluded.affected_character_ids,
			is_active = excluded.is_active,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		event.ID, event.Name, event.Description, string(event.Severity),
		locationsJSON, charactersJSON, event.IsActive, event.ExpiresAt,
		event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}
	return nil
}

const eventColumns = `
	id, name, description, severity, affected_locations,
	affected_character_ids, is_active, expires_at, created_at, updated_at
`

func scanEvent(scan func(...interface{}) error) (*types.WorldEvent, error) {
	var (
		e                          types.WorldEvent
		severity                   string
		locationsRaw, charactersRaw sql.NullString
		expiresAt                  sql.NullTime
	)

	err := scan(
		&e.ID, &e.Name, &e.Description, &severity, &locationsRaw,
		&charactersRaw, &e.IsActive, &expiresAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Severity = types.EventSeverity(severity)
	if e.AffectedLocations, err = unmarshalStrings(locationsRaw); err != nil {
		return nil, err
	}
	if e.AffectedCharacterIDs, err = unmarshalStrings(charactersRaw); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		e.ExpiresAt = &t
	}

	return &e, nil
}

// GetEvent retrieves a world event by ID.
func (s *WorldStore) GetEvent(ctx context.Context, id string) (*types.WorldEvent, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM world_events WHERE id = ?", id)

	event, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// ListActiveEvents returns all events flagged active, newest first.
func (s *WorldStore) ListActiveEvents(ctx context.Context) ([]*types.WorldEvent, error) {
	return s.listEvents(ctx,
		"SELECT "+eventColumns+" FROM world_events WHERE is_active = 1 ORDER BY created_at DESC")
}

// ListAllEvents returns every event, active or not, newest first.
func (s *WorldStore) ListAllEvents(ctx context.Context) ([]*types.WorldEvent, error) {
	return s.listEvents(ctx,
		"SELECT "+eventColumns+" FROM world_events ORDER BY created_at DESC")
}

func (s *WorldStore) listEvents(ctx context.Context, query string) ([]*types.WorldEvent, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*types.WorldEvent
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// ExpireEvents flips the active flag off for every event whose expiry
// timestamp is in the past. Returns the number of events deactivated.
func (s *WorldStore) ExpireEvents(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE world_events
		SET is_active = 0, updated_at = ?
		WHERE is_active = 1 AND expires_at IS NOT NULL AND expires_at < ?`,
		time.Now(), time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire events: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return int(affected), nil
}

// --- UserStore ---

// StoreUser creates or updates a user (upsert semantics).
func (s *WorldStore) StoreUser(ctx context.Context, user *types.User) error {
	if user == nil {
		return storage.ErrInvalidInput
	}
	if user.ID == "" || user.Username == "" {
		return fmt.Errorf("%w: user ID and username are required", storage.ErrInvalidInput)
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = time.Now()
	if user.Level == 0 {
		user.Level = 1
	}

	query := `
		INSERT INTO users (
			id, username, email, display_name, level, experience_points,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			display_name = excluded.display_name,
			level = excluded.level,
			experience_points = excluded.experience_points,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.DisplayName,
		user.Level, user.ExperiencePoints, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *WorldStore) GetUser(ctx context.Context, id string) (*types.User, error) {
	var (
		u           types.User
		displayName sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, display_name, level, experience_points,
		       created_at, updated_at
		FROM users WHERE id = ?`, id).Scan(
		&u.ID, &u.Username, &u.Email, &displayName,
		&u.Level, &u.ExperiencePoints, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.DisplayName = displayName.String
	return &u, nil
}

// Compile-time assertion.
var _ storage.WorldStore = (*WorldStore)(nil)
