package twin

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type User struct {
	ID                 string  `json:"_id"`
	Name               string  `json:"name"`
	MobileNumber       string  `json:"mobileNumber"`
	Email              string  `json:"email,omitempty"`
	State              string  `json:"state,omitempty"`
	WorkingState       string  `json:"workingState,omitempty"`
	TotalLimit         float64 `json:"totalLimit"`
	AvailableLimit     float64 `json:"availableLimit"`
	ForwardPhoneNumber string  `json:"forwardPhoneNumber,omitempty"`
	IsForwarded        string  `json:"isForwarded,omitempty"`
	CreatedAt          string  `json:"createdAt,omitempty"`
}

type FormData struct {
	ID                  string `json:"_id"`
	SenderPhoneNumber   string `json:"senderPhoneNumber"`
	RecieverPhoneNumber string `json:"recieverPhoneNumber"`
	Message             string `json:"message"`
	Time                string `json:"time"`
	CreatedAt           string `json:"createdAt"`
}

// MemoryStore holds the twin's users and form submissions in insertion order.
type MemoryStore struct {
	mu     sync.RWMutex
	users  []User
	forms  []FormData
	nextID int
	now    func() time.Time
}

func NewStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s%06d", prefix, s.nextID)
}

func (s *MemoryStore) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]User(nil), s.users...)
}

func (s *MemoryStore) Forms() []FormData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]FormData(nil), s.forms...)
}

func (s *MemoryStore) User(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (s *MemoryStore) AddUser(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = s.id("usr_")
	}
	if u.CreatedAt == "" {
		u.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}
	s.users = append(s.users, u)
	return u
}

func (s *MemoryStore) AddForm(f FormData) FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFormLocked(f)
}

func (s *MemoryStore) addFormLocked(f FormData) FormData {
	now := s.now()
	if f.ID == "" {
		f.ID = s.id("frm_")
	}
	if f.Time == "" {
		f.Time = now.Format("15:04")
	}
	if f.CreatedAt == "" {
		f.CreatedAt = now.UTC().Format(time.RFC3339)
	}
	s.forms = append(s.forms, f)
	return f
}

// SaveForwardNumber sets the destination for mobile, registering the number if
// it is unknown.
func (s *MemoryStore) SaveForwardNumber(mobile, forward string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].MobileNumber == mobile {
			s.users[i].ForwardPhoneNumber = forward
			return s.users[i]
		}
	}
	u := User{
		ID:                 s.id("usr_"),
		MobileNumber:       mobile,
		ForwardPhoneNumber: forward,
		CreatedAt:          s.now().UTC().Format(time.RFC3339),
	}
	s.users = append(s.users, u)
	return u
}

// SetForwardStatus updates the flag. maxActive > 0 caps how many users may have
// forwarding active at once.
func (s *MemoryStore) SetForwardStatus(mobile, status string, maxActive int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	active := 0
	for i, u := range s.users {
		if u.MobileNumber == mobile {
			idx = i
		}
		if u.IsForwarded == "active" {
			active++
		}
	}
	if idx < 0 {
		return errUnknownUser
	}
	if status == "active" && s.users[idx].IsForwarded != "active" && maxActive > 0 && active >= maxActive {
		return errLimitExceeded
	}
	s.users[idx].IsForwarded = status
	return nil
}

// Relay records a message sent on behalf of phoneNo.
func (s *MemoryStore) Relay(phoneNo, to, message string) FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFormLocked(FormData{SenderPhoneNumber: phoneNo, RecieverPhoneNumber: to, Message: message})
}

type snapshot struct {
	Users []User     `json:"users"`
	Forms []FormData `json:"forms"`
}

// LoadState replaces the state from a JSON fixture {"users": [...], "forms": [...]}.
func (s *MemoryStore) LoadState(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse seed data: %w", err)
	}
	s.mu.Lock()
	s.users = nil
	s.forms = nil
	s.mu.Unlock()
	for _, u := range snap.Users {
		s.AddUser(u)
	}
	for _, f := range snap.Forms {
		s.AddForm(f)
	}
	return nil
}

var (
	firstNames = []string{"Asha", "Ben", "Chen", "Dara", "Eli", "Farah", "Gus", "Hana", "Ivan", "Jo"}
	lastNames  = []string{"Rao", "Okafor", "Li", "Novak", "Silva"}
	states     = []string{"TX", "CA", "NY", "WA", "FL"}
)

// Seed fills the store with deterministic demo data.
func (s *MemoryStore) Seed(users, messages int) {
	for i := 0; i < users; i++ {
		u := User{
			Name:           fmt.Sprintf("%s %s", firstNames[i%len(firstNames)], lastNames[i%len(lastNames)]),
			MobileNumber:   fmt.Sprintf("98765%05d", i),
			Email:          fmt.Sprintf("user%02d@example.com", i),
			State:          states[i%len(states)],
			WorkingState:   states[(i+1)%len(states)],
			TotalLimit:     1000,
			AvailableLimit: float64(1000 - 37*i%1000),
		}
		switch i % 3 {
		case 0:
			u.IsForwarded = "active"
			u.ForwardPhoneNumber = fmt.Sprintf("55501%05d", i)
		case 1:
			u.IsForwarded = "deactive"
		}
		s.AddUser(u)
	}
	if users == 0 {
		return
	}
	for i := 0; i < messages; i++ {
		s.AddForm(FormData{
			SenderPhoneNumber:   fmt.Sprintf("98765%05d", i%users),
			RecieverPhoneNumber: fmt.Sprintf("98765%05d", (i*7+3)%users),
			Message:             fmt.Sprintf("Message #%d: call me back about the order", i+1),
			Time:                fmt.Sprintf("%02d:%02d", 8+i%12, (i*13)%60),
		})
	}
}
