package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/thornquist/loreweaver/internal/storage"
	"github.com/thornquist/loreweaver/pkg/types"
)

// WorldStore implements storage.WorldStore against PostgreSQL. It is the
// multi-instance deployment option; single-node installs use the SQLite store.
type WorldStore struct {
	db *sql.DB
}

// NewWorldStore connects to PostgreSQL and creates the schema.
func NewWorldStore(dsn string) (*WorldStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &WorldStore{db: db}, nil
}

// GetDB exposes the underlying connection pool.
func (s *WorldStore) GetDB() *sql.DB {
	return s.db
}

// Close releases the connection pool.
func (s *WorldStore) Close() error {
	return s.db.Close()
}

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

func unmarshalStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal string array column: %w", err)
	}
	return out, nil
}

// --- CharacterStore ---

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
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			description = EXCLUDED.description,
			personality_prompt = EXCLUDED.personality_prompt,
			backstory = EXCLUDED.backstory,
			location = EXCLUDED.location,
			speech_patterns = EXCLUDED.speech_patterns,
			knowledge_domains = EXCLUDED.knowledge_domains,
			current_mood = EXCLUDED.current_mood,
			alignment = EXCLUDED.alignment,
			race = EXCLUDED.race,
			level = EXCLUDED.level,
			experience_points = EXCLUDED.experience_points,
			avatar_url = EXCLUDED.avatar_url,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
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

const characterColumns = `
	id, name, role, description, personality_prompt, backstory, location,
	speech_patterns, knowledge_domains, current_mood, alignment, race,
	level, experience_points, avatar_url, is_active, created_at, updated_at
`

func scanCharacter(scan func(...interface{}) error) (*types.Character, error) {
	var (
		c                                   types.Character
		role                                string
		description, personality, backstory sql.NullString
		location, race, avatarURL           sql.NullString
		speechRaw, domainsRaw, moodRaw      []byte
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
	if len(moodRaw) > 0 {
		if err := json.Unmarshal(moodRaw, &c.CurrentMood); err != nil {
			return nil, fmt.Errorf("failed to unmarshal current_mood: %w", err)
		}
	}

	return &c, nil
}

func (s *WorldStore) GetCharacter(ctx context.Context, id string) (*types.Character, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+characterColumns+" FROM characters WHERE id = $1", id)

	character, err := scanCharacter(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return character, nil
}

func (s *WorldStore) ListCharacters(ctx context.Context) ([]*types.Character, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+characterColumns+" FROM characters WHERE is_active = TRUE ORDER BY created_at ASC")
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

func (s *WorldStore) UpdateCharacterMood(ctx context.Context, id string, mood types.Mood) error {
	moodJSON, err := marshalJSON(mood)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE characters SET current_mood = $1, updated_at = $2 WHERE id = $3",
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
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			summary = EXCLUDED.summary,
			metadata = EXCLUDED.metadata,
			last_message_at = EXCLUDED.last_message_at,
			updated_at = EXCLUDED.updated_at
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
		metadataRaw   []byte
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
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conversation metadata: %w", err)
		}
	}
	if lastMessageAt.Valid {
		t := lastMessageAt.Time
		c.LastMessageAt = &t
	}

	return &c, nil
}

func (s *WorldStore) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE id = $1", id)

	conversation, err := scanConversation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

func (s *WorldStore) FindActiveConversation(ctx context.Context, userID, characterID string) (*types.Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+conversationColumns+` FROM conversations
		 WHERE user_id = $1 AND character_id = $2 AND is_active = TRUE
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

func (s *WorldStore) ListUserConversations(ctx context.Context, userID string) ([]*types.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+conversationColumns+` FROM conversations
		 WHERE user_id = $1 AND is_active = TRUE
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
		VALUES ($1, $2, $3, $4, $5, $6)`,
		message.ID, message.ConversationID, string(message.Sender),
		message.Content, metadataJSON, message.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

func (s *WorldStore) ListMessages(ctx context.Context, conversationID string, opts storage.MessageListOptions) ([]*types.Message, error) {
	query := `
		SELECT id, conversation_id, sender, content, metadata, timestamp
		FROM messages
		WHERE conversation_id = $1
		ORDER BY timestamp ASC`
	args := []interface{}{conversationID}

	if opts.Limit > 0 {
		query += " LIMIT $2"
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
			metadataRaw []byte
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &sender, &m.Content, &metadataRaw, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Sender = types.SenderType(sender)
		if len(metadataRaw) > 0 {
			var meta types.MessageMetadata
			if err := json.Unmarshal(metadataRaw, &meta); err != nil {
				return nil, fmt.Errorf("failed to unmarshal message metadata: %w", err)
			}
			m.Metadata = &meta
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func (s *WorldStore) CountMessages(ctx context.Context, conversationID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE conversation_id = $1", conversationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// --- QuestStore ---

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
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			difficulty = EXCLUDED.difficulty,
			status = EXCLUDED.status,
			progress = EXCLUDED.progress,
			objectives = EXCLUDED.objectives,
			rewards = EXCLUDED.rewards,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
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
		q                         types.Quest
		difficulty, status        string
		objectivesRaw, rewardsRaw []byte
		completedAt               sql.NullTime
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
	if len(objectivesRaw) > 0 {
		if err := json.Unmarshal(objectivesRaw, &q.Objectives); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quest objectives: %w", err)
		}
	}
	if len(rewardsRaw) > 0 {
		if err := json.Unmarshal(rewardsRaw, &q.Rewards); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quest rewards: %w", err)
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		q.CompletedAt = &t
	}

	return &q, nil
}

func (s *WorldStore) GetQuest(ctx context.Context, id string) (*types.Quest, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+questColumns+" FROM quests WHERE id = $1", id)

	quest, err := scanQuest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}
	return quest, nil
}

func (s *WorldStore) ListUserQuests(ctx context.Context, userID string, filter storage.QuestFilter) ([]*types.Quest, error) {
	query := "SELECT " + questColumns + " FROM quests WHERE user_id = $1"
	args := []interface{}{userID}

	if filter.Status != "" {
		query += " AND status = $2"
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
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			severity = EXCLUDED.severity,
			affected_locations = EXCLUDED.affected_locations,
			affected_character_ids = EXCLUDED.affected_character_ids,
			is_active = EXCLUDED.is_active,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
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
		e                           types.WorldEvent
		severity                    string
		locationsRaw, charactersRaw []byte
		expiresAt                   sql.NullTime
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

func (s *WorldStore) GetEvent(ctx context.Context, id string) (*types.WorldEvent, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM world_events WHERE id = $1", id)

	event, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *WorldStore) ListActiveEvents(ctx context.Context) ([]*types.WorldEvent, error) {
	return s.listEvents(ctx,
		"SELECT "+eventColumns+" FROM world_events WHERE is_active = TRUE ORDER BY created_at DESC")
}

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

func (s *WorldStore) ExpireEvents(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE world_events
		SET is_active = FALSE, updated_at = NOW()
		WHERE is_active = TRUE AND expires_at IS NOT NULL AND expires_at < NOW()`)
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
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			level = EXCLUDED.level,
			experience_points = EXCLUDED.experience_points,
			updated_at = EXCLUDED.updated_at
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

func (s *WorldStore) GetUser(ctx context.Context, id string) (*types.User, error) {
	var (
		u           types.User
		displayName sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, display_name, level, experience_points,
		       created_at, updated_at
		FROM users WHERE id = $1`, id).Scan(
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
