package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	"sociogram/internal/infrastructure/auth"
	"sociogram/pkg/errors"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmailAndProvider(_ context.Context, email string, provider entity.Provider) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Provider == provider {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetPendingConfirmation(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.ConfirmEmailOTP != "" && u.ConfirmedAt == nil {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetPendingReset(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.ResetPasswordOTP != "" {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) applyUpdate(user *entity.User, set repository.UserUpdate, unset []string) {
	for key, value := range set {
		switch key {
		case "confirmedAt":
			ts := value.(time.Time)
			user.ConfirmedAt = &ts
		case "changeCredentialsTime":
			ts := value.(time.Time)
			user.ChangeCredentialsTime = &ts
		case "password":
			user.Password = value.(string)
		case "resetPasswordOtp":
			user.ResetPasswordOTP = value.(string)
		case "tempImageKey":
			user.TempImageKey = value.(string)
		case "profileImageKey":
			user.ProfileImageKey = value.(string)
		case "username":
			user.Username = value.(string)
		}
	}
	for _, key := range unset {
		switch key {
		case "confirmEmailOtp":
			user.ConfirmEmailOTP = ""
		case "resetPasswordOtp":
			user.ResetPasswordOTP = ""
		case "tempImageKey":
			user.TempImageKey = ""
		}
	}
}

func (r *fakeUserRepo) UpdateByID(_ context.Context, id string, set repository.UserUpdate, unset []string) error {
	user := r.users[id]
	if user == nil {
		return errors.NotFound("User", nil)
	}
	r.applyUpdate(user, set, unset)
	return nil
}

func (r *fakeUserRepo) UpdateByEmail(ctx context.Context, email string, set repository.UserUpdate, unset []string) error {
	user, _ := r.GetByEmail(ctx, email)
	if user == nil {
		return errors.NotFound("User", nil)
	}
	r.applyUpdate(user, set, unset)
	return nil
}

func (r *fakeUserRepo) AddFriend(_ context.Context, userID, friendID string) error {
	user := r.users[userID]
	if user == nil {
		return errors.NotFound("User", nil)
	}
	if !user.IsFriend(friendID) {
		user.Friends = append(user.Friends, friendID)
	}
	return nil
}

func (r *fakeUserRepo) CountExisting(_ context.Context, ids []string, exclude string) (int64, error) {
	var count int64
	for _, id := range ids {
		if id != exclude && r.users[id] != nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Freeze(_ context.Context, userID, byUserID string) error {
	now := time.Now()
	r.users[userID].FreezedAt = &now
	r.users[userID].FreezedBy = byUserID
	return nil
}

func (r *fakeUserRepo) Restore(_ context.Context, userID, byUserID string) error {
	r.users[userID].FreezedAt = nil
	return nil
}

func (r *fakeUserRepo) Block(_ context.Context, userID, byUserID string) error {
	now := time.Now()
	r.users[userID].BlockedAt = &now
	return nil
}

func (r *fakeUserRepo) ChangeRole(_ context.Context, userID string, role entity.Role, denied []entity.Role) error {
	user := r.users[userID]
	if user == nil {
		return errors.NotFound("User", nil)
	}
	for _, d := range denied {
		if user.Role == d {
			return errors.NotFound("User", nil)
		}
	}
	user.Role = role
	return nil
}

func (r *fakeUserRepo) HardDelete(_ context.Context, userID string) error {
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, page repository.Page) (*repository.Paginated[*entity.User], error) {
	out := &repository.Paginated[*entity.User]{}
	for _, u := range r.users {
		out.Result = append(out.Result, u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetMany(_ context.Context, ids []string) ([]*entity.User, error) {
	var out []*entity.User
	for _, id := range ids {
		if u := r.users[id]; u != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeFriendRequestRepo enforces one edge per unordered pair the same way
// the mongo implementation's unique pair-key index does.
type fakeFriendRequestRepo struct {
	requests map[string]*entity.FriendRequest
}

func newFakeFriendRequestRepo() *fakeFriendRequestRepo {
	return &fakeFriendRequestRepo{requests: map[string]*entity.FriendRequest{}}
}

func (r *fakeFriendRequestRepo) Create(_ context.Context, request *entity.FriendRequest) error {
	key := entity.FriendPairKey(request.CreatedBy, request.SendTo)
	if _, exists := r.requests[key]; exists {
		return errors.Conflict("Friend request already exists")
	}
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	request.PairKey = key
	r.requests[key] = request
	return nil
}

func (r *fakeFriendRequestRepo) GetByPair(_ context.Context, a, b string) (*entity.FriendRequest, error) {
	return r.requests[entity.FriendPairKey(a, b)], nil
}

func (r *fakeFriendRequestRepo) Accept(_ context.Context, requestID, userID string) (*entity.FriendRequest, error) {
	for _, request := range r.requests {
		if request.ID == requestID && request.SendTo == userID && request.AcceptedAt == nil {
			now := time.Now()
			request.AcceptedAt = &now
			return request, nil
		}
	}
	return nil, nil
}

type fakeTokenService struct {
	issued  int
	revoked []string
}

func (s *fakeTokenService) IssueCredentials(userID string) (*auth.Credentials, error) {
	s.issued++
	return &auth.Credentials{AccessToken: "access-" + userID, RefreshToken: "refresh-" + userID}, nil
}

func (s *fakeTokenService) Verify(context.Context, string, auth.TokenKind) (*auth.VerifiedToken, error) {
	return nil, errors.Unauthorized("Invalid or expired token", nil)
}

func (s *fakeTokenService) Revoke(_ context.Context, verified *auth.VerifiedToken) error {
	s.revoked = append(s.revoked, verified.JTI)
	return nil
}

type fakeGoogleVerifier struct {
	accounts map[string]*auth.GoogleAccount
}

func (v *fakeGoogleVerifier) Verify(_ context.Context, rawToken string) (*auth.GoogleAccount, error) {
	if account := v.accounts[rawToken]; account != nil {
		return account, nil
	}
	return nil, errors.BadRequest("Failed to verify this Google account", nil)
}

type fakeNotifier struct {
	confirmOTPs map[string]string
	resetOTPs   map[string]string
	tagged      []string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{confirmOTPs: map[string]string{}, resetOTPs: map[string]string{}}
}

func (n *fakeNotifier) ConfirmEmail(to, otp string)  { n.confirmOTPs[to] = otp }
func (n *fakeNotifier) ResetPassword(to, otp string) { n.resetOTPs[to] = otp }
func (n *fakeNotifier) Tagged(to, _ string)          { n.tagged = append(n.tagged, to) }

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) (string, error) {
	data, _ := io.ReadAll(reader)
	s.objects[key] = data
	return key, nil
}

func (s *fakeStorage) PresignedUpload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/" + key, nil
}

func (s *fakeStorage) Get(context.Context, string) (io.ReadCloser, string, error) {
	return nil, "", errors.NotFound("File", nil)
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) DeletePrefix(_ context.Context, prefix string) error {
	s.deleted = append(s.deleted, prefix)
	return nil
}

type fakeGateway struct {
	frames map[string][][]byte
	online map[string]bool
}

func newFakeGateway(online ...string) *fakeGateway {
	g := &fakeGateway{frames: map[string][][]byte{}, online: map[string]bool{}}
	for _, id := range online {
		g.online[id] = true
	}
	return g
}

func (g *fakeGateway) IsOnline(userID string) bool { return g.online[userID] }

func (g *fakeGateway) SendToUser(userID string, frame []byte) bool {
	if !g.online[userID] {
		return false
	}
	g.frames[userID] = append(g.frames[userID], frame)
	return true
}

func (g *fakeGateway) FanOut(userIDs []string, exceptUserID string, frame []byte) int {
	delivered := 0
	for _, id := range userIDs {
		if id != exceptUserID && g.SendToUser(id, frame) {
			delivered++
		}
	}
	return delivered
}
