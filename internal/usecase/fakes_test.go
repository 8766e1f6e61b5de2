package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"olicore/internal/domain/entity"
	"olicore/pkg/errors"
)

// In-memory repositories mirroring the Postgres-backed behavior the use
// cases depend on, including pair uniqueness and upsert semantics.

type memFriendshipRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.Friendship
}

func newMemFriendshipRepo() *memFriendshipRepo {
	return &memFriendshipRepo{rows: make(map[string]*entity.Friendship)}
}

func pairKeyOf(a, b string) string {
	lo, hi := entity.SortPair(a, b)
	return lo + "|" + hi
}

func (r *memFriendshipRepo) Create(ctx context.Context, friendship *entity.Friendship) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKeyOf(friendship.RequesterID, friendship.AddresseeID)
	if _, exists := r.rows[key]; exists {
		return false, nil
	}

	friendship.ID = uuid.New().String()
	friendship.UserLo, friendship.UserHi = entity.SortPair(friendship.RequesterID, friendship.AddresseeID)
	friendship.CreatedAt = time.Now()
	friendship.UpdatedAt = friendship.CreatedAt

	stored := *friendship
	r.rows[key] = &stored
	return true, nil
}

func (r *memFriendshipRepo) GetByPair(ctx context.Context, userA, userB string) (*entity.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[pairKeyOf(userA, userB)]
	if !ok {
		return nil, errors.NotFound("Friendship", nil)
	}
	copied := *row
	return &copied, nil
}

func (r *memFriendshipRepo) Update(ctx context.Context, friendship *entity.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKeyOf(friendship.RequesterID, friendship.AddresseeID)
	if _, ok := r.rows[key]; !ok {
		return errors.NotFound("Friendship", nil)
	}
	friendship.UpdatedAt = time.Now()
	stored := *friendship
	r.rows[key] = &stored
	return nil
}

func (r *memFriendshipRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type memConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	byKey         map[string]string
	participants  map[string][]string
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		byKey:         make(map[string]string),
		participants:  make(map[string][]string),
	}
}

func (r *memConversationRepo) GetOrCreate(ctx context.Context, conversation *entity.Conversation, userA, userB string) (*entity.Conversation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entity.PairKey(userA, userB, conversation.ListingID)
	if id, ok := r.byKey[key]; ok {
		existing := *r.conversations[id]
		return &existing, false, nil
	}

	conversation.ID = uuid.New().String()
	conversation.Type = "private"
	conversation.PairKey = key
	conversation.CreatedAt = time.Now()
	conversation.UpdatedAt = conversation.CreatedAt

	stored := *conversation
	r.conversations[conversation.ID] = &stored
	r.byKey[key] = conversation.ID
	r.participants[conversation.ID] = []string{userA, userB}

	copied := stored
	return &copied, true, nil
}

func (r *memConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	copied := *conversation
	return &copied, nil
}

func (r *memConversationRepo) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.participants[conversationID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memConversationRepo) OtherParticipant(ctx context.Context, conversationID, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.participants[conversationID] {
		if id != userID {
			return id, nil
		}
	}
	return "", errors.NotFound("Participant", nil)
}

func (r *memConversationRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Conversation
	for id, members := range r.participants {
		for _, member := range members {
			if member == userID {
				copied := *r.conversations[id]
				out = append(out, &copied)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memConversationRepo) ListIDsByPair(ctx context.Context, userA, userB string, listingID *string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listingID != nil && *listingID != "" {
		if id, ok := r.byKey[entity.PairKey(userA, userB, listingID)]; ok {
			return []string{id}, nil
		}
		return nil, nil
	}

	lo, hi := entity.SortPair(userA, userB)
	prefix := lo + "|" + hi + "|"
	var out []string
	for key, id := range r.byKey {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

type memMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message
	clock    time.Time
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{clock: time.Now()}
}

func (r *memMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clock = r.clock.Add(time.Millisecond)
	message.ID = uuid.New().String()
	message.CreatedAt = r.clock

	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *memMessageRepo) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, message := range r.messages {
		if message.ID == id {
			copied := *message
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *memMessageRepo) ListByConversations(ctx context.Context, conversationIDs []string, cursor time.Time, cursorID string, limit int) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]struct{}, len(conversationIDs))
	for _, id := range conversationIDs {
		wanted[id] = struct{}{}
	}

	ordered := make([]*entity.Message, len(r.messages))
	copy(ordered, r.messages)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	var out []*entity.Message
	for _, message := range ordered {
		if _, ok := wanted[message.ConversationID]; !ok {
			continue
		}
		if !cursor.IsZero() {
			if message.CreatedAt.Before(cursor) {
				continue
			}
			if message.CreatedAt.Equal(cursor) && (cursorID == "" || message.ID <= cursorID) {
				continue
			}
		}
		copied := *message
		out = append(out, &copied)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memMessageRepo) MarkConversationRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	for _, message := range r.messages {
		if message.ConversationID == conversationID && message.SenderID != readerID && !message.IsRead {
			message.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (r *memMessageRepo) LastInConversation(ctx context.Context, conversationID string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].ConversationID == conversationID {
			copied := *r.messages[i]
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *memMessageRepo) CountUnread(ctx context.Context, conversationID, readerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, message := range r.messages {
		if message.ConversationID == conversationID && message.SenderID != readerID && !message.IsRead {
			count++
		}
	}
	return count, nil
}

type memNotificationRepo struct {
	mu   sync.Mutex
	rows []*entity.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification.ID = uuid.New().String()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = notification.CreatedAt

	stored := *notification
	r.rows = append(r.rows, &stored)
	return nil
}

func (r *memNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Notification
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if r.rows[i].UserID == userID {
			copied := *r.rows[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, row := range r.rows {
		if row.UserID == userID && !row.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id, userID string) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.ID == id && row.UserID == userID {
			row.IsRead = true
			copied := *row
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Notification", nil)
}

func (r *memNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	for _, row := range r.rows {
		if row.UserID == userID && !row.IsRead {
			row.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (r *memNotificationRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, row := range r.rows {
		if row.ID == id && row.UserID == userID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotificationRepo) DeleteAllRead(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []*entity.Notification
	var deleted int64
	for _, row := range r.rows {
		if row.UserID == userID && row.IsRead {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return deleted, nil
}

type memDeviceTokenRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.DeviceToken
}

func newMemDeviceTokenRepo() *memDeviceTokenRepo {
	return &memDeviceTokenRepo{rows: make(map[string]*entity.DeviceToken)}
}

func (r *memDeviceTokenRepo) Upsert(ctx context.Context, token *entity.DeviceToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.rows[token.Token]; ok {
		existing.UserID = token.UserID
		existing.Platform = token.Platform
		existing.UpdatedAt = time.Now()
		return nil
	}

	token.ID = uuid.New().String()
	token.CreatedAt = time.Now()
	token.UpdatedAt = token.CreatedAt
	stored := *token
	r.rows[token.Token] = &stored
	return nil
}

func (r *memDeviceTokenRepo) ListByUser(ctx context.Context, userID string) ([]*entity.DeviceToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.DeviceToken
	for _, row := range r.rows {
		if row.UserID == userID {
			copied := *row
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}

func (r *memDeviceTokenRepo) Delete(ctx context.Context, userID, token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[token]; ok && row.UserID == userID {
		delete(r.rows, token)
		return 1, nil
	}
	return 0, nil
}

func (r *memDeviceTokenRepo) DeleteByTokens(ctx context.Context, tokens []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, token := range tokens {
		if _, ok := r.rows[token]; ok {
			delete(r.rows, token)
			deleted++
		}
	}
	return deleted, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

type emittedEvent struct {
	UserID  string
	Event   string
	Payload interface{}
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (e *fakeEmitter) EmitToUser(userID, event string, payload interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emittedEvent{UserID: userID, Event: event, Payload: payload})
}

func (e *fakeEmitter) eventsFor(userID, event string) []emittedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []emittedEvent
	for _, ev := range e.events {
		if ev.UserID == userID && ev.Event == event {
			out = append(out, ev)
		}
	}
	return out
}

type pushCall struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}

type fakePush struct {
	mu      sync.Mutex
	calls   []pushCall
	invalid []string
	err     error
}

func (p *fakePush) SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, pushCall{Tokens: tokens, Title: title, Body: body, Data: data})
	if p.err != nil {
		return nil, p.err
	}
	return p.invalid, nil
}

func (p *fakePush) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *fakePush) lastCall() pushCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[len(p.calls)-1]
}
