package services

import (
	"testing"

	"github.com/kendall-kelly/coach-booking-api/models"
	"github.com/kendall-kelly/coach-booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserServiceCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)

	phone := " +1 555 0100 "
	user, err := svc.Create(CreateUserInput{
		Email:     "Client@Example.com",
		Password:  "secret1",
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", user.Email)
	assert.Equal(t, models.RoleClient, user.Role, "role defaults to client")
	assert.Equal(t, models.UserStatusActive, user.Status)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "+1 555 0100", *user.Phone)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	_, err = svc.Create(CreateUserInput{Email: "client@example.com", Password: "secret1", FirstName: "Jo", LastName: "Do"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserServiceCreateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)

	tests := []struct {
		name string
		in   CreateUserInput
	}{
		{"short password", CreateUserInput{Email: "a@example.com", Password: "12345", FirstName: "Al", LastName: "Bo"}},
		{"short name", CreateUserInput{Email: "a@example.com", Password: "123456", FirstName: "A", LastName: "Bo"}},
		{"unknown role", CreateUserInput{Email: "a@example.com", Password: "123456", FirstName: "Al", LastName: "Bo", Role: "owner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.in)
			assert.True(t, IsKind(err, KindValidation), "got %v", err)
		})
	}
}

func TestUserServiceSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	admin := testutil.CreateUser(t, db, models.RoleAdmin, "Ada", "Admin")
	client := testutil.CreateUser(t, db, models.RoleClient, "Jane", "Doe")

	assert.ErrorIs(t, svc.SetStatus(admin.ID, admin.ID, models.UserStatusBlocked), ErrSelfModification)
	assert.True(t, IsKind(svc.SetStatus(admin.ID, client.ID, "frozen"), KindValidation))
	assert.ErrorIs(t, svc.SetStatus(admin.ID, 9999, models.UserStatusBlocked), ErrUserNotFound)

	require.NoError(t, svc.SetStatus(admin.ID, client.ID, models.UserStatusBlocked))
	got, err := svc.Find(client.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive())
}

func TestUserServiceDeleteCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	admin := testutil.CreateUser(t, db, models.RoleAdmin, "Ada", "Admin")
	client := testutil.CreateUser(t, db, models.RoleClient, "Jane", "Doe")
	coach := testutil.CreateCoach(t, db, "John", "Smith")
	testutil.CreateAppointment(t, db, client.ID, coach.ID, testutil.NextWeekday("Monday"), "10:00", models.StatusScheduled)

	assert.ErrorIs(t, svc.Delete(admin.ID, admin.ID), ErrSelfModification)

	require.NoError(t, svc.Delete(admin.ID, coach.UserID))

	var coaches, appointments int64
	db.Model(&models.Coach{}).Count(&coaches)
	db.Model(&models.Appointment{}).Count(&appointments)
	assert.Zero(t, coaches)
	assert.Zero(t, appointments)

	assert.ErrorIs(t, svc.Delete(admin.ID, coach.UserID), ErrUserNotFound)
}

func TestUserServiceProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	client := testutil.CreateUser(t, db, models.RoleClient, "Jane", "Doe")

	phone := "555-0101"
	updated, err := svc.UpdateProfile(client.ID, UpdateProfileInput{FirstName: "Janet", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-0101", *updated.Phone)

	cleared, err := svc.UpdateProfile(client.ID, UpdateProfileInput{})
	require.NoError(t, err)
	assert.Nil(t, cleared.Phone)

	profile, err := svc.Profile(client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.Email, profile.Email)

	_, err = svc.Profile(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServiceList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	first := testutil.CreateUser(t, db, models.RoleClient, "Jane", "Doe")
	second := testutil.CreateUser(t, db, models.RoleClient, "Bob", "Roe")

	users, err := svc.List()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID, users[0].ID)
	assert.Equal(t, first.ID, users[1].ID)
}

func TestUserServiceStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	testutil.CreateUser(t, db, models.RoleAdmin, "Ada", "Admin")
	client := testutil.CreateUser(t, db, models.RoleClient, "Jane", "Doe")
	blocked := testutil.CreateUser(t, db, models.RoleClient, "Bob", "Roe")
	coach := testutil.CreateCoach(t, db, "John", "Smith")
	require.NoError(t, db.Model(blocked).Update("status", models.UserStatusBlocked).Error)

	monday := testutil.NextWeekday("Monday")
	testutil.CreateAppointment(t, db, client.ID, coach.ID, monday, "09:00", models.StatusScheduled)
	testutil.CreateAppointment(t, db, client.ID, coach.ID, monday, "10:00", models.StatusCompleted)
	testutil.CreateAppointment(t, db, blocked.ID, coach.ID, monday, "11:00", models.StatusNoShow)
	testutil.CreateAppointment(t, db, blocked.ID, coach.ID, monday, "12:00", models.StatusCancelled)

	stats, err := svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, UserStats{Total: 4, Clients: 2, Coaches: 1, Admins: 1, Active: 3, Blocked: 1}, stats.Users)
	assert.Equal(t, AppointmentStats{Total: 4, Scheduled: 1, Completed: 1, Cancelled: 1, NoShows: 1}, stats.Appointments)
	assert.Equal(t, int64(4), stats.Recent.NewUsers)
	assert.Equal(t, int64(4), stats.Recent.NewAppointments)
}
