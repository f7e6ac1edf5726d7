package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/chat"
	"github.com/Laisfaustt/ProjetoCamali/internal/domain/mood"
	"github.com/Laisfaustt/ProjetoCamali/internal/domain/user"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/messaging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/docstore"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/security"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
)

func setupTest(t *testing.T) (*docstore.SQLStore, *logging.ChanneledLogger) {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{OutputToConsole: false})
	if err != nil {
		t.Fatal(err)
	}
	store, err := docstore.NewSQLStore(docstore.Config{
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store, logger
}

func TestSignupAndLogin(t *testing.T) {
	store, logger := setupTest(t)
	auth := NewAuthService(store, nil, logger)
	ctx := context.Background()

	result, err := auth.Signup(ctx, "Ana", "ana@exemplo.com", "segredo1", "Design")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if !result.Success || result.Token == "" {
		t.Fatalf("signup result = %+v", result)
	}
	if result.Profile.Role != user.RoleStudent {
		t.Errorf("Role = %s, want %s", result.Profile.Role, user.RoleStudent)
	}
	if result.Profile.AnxietyLevel != user.AnxietyLow {
		t.Errorf("AnxietyLevel = %s, want %s", result.Profile.AnxietyLevel, user.AnxietyLow)
	}

	login, err := auth.Login(ctx, "ana@exemplo.com", "segredo1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !login.Success {
		t.Fatalf("login result = %+v", login)
	}

	bad, err := auth.Login(ctx, "ana@exemplo.com", "errada99")
	if err != nil {
		t.Fatal(err)
	}
	if bad.Success {
		t.Error("login succeeded with the wrong password")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	store, logger := setupTest(t)
	auth := NewAuthService(store, nil, logger)
	ctx := context.Background()

	if _, err := auth.Signup(ctx, "Ana", "ana@exemplo.com", "segredo1", ""); err != nil {
		t.Fatal(err)
	}
	dup, err := auth.Signup(ctx, "Outra", "ana@exemplo.com", "segredo2", "")
	if err != nil {
		t.Fatal(err)
	}
	if dup.Success {
		t.Error("duplicate email accepted")
	}
}

func TestAdvisorDomainGrantsAndRevokesAccess(t *testing.T) {
	store, logger := setupTest(t)
	auth := NewAuthService(store, nil, logger)
	ctx := context.Background()

	email := "claudia" + config.AdvisorDomain
	result, err := auth.Signup(ctx, "Cláudia", email, "segredo1", "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Profile.Role != user.RoleAdvisor {
		t.Fatalf("Role = %s, want %s", result.Profile.Role, user.RoleAdvisor)
	}

	login, err := auth.Login(ctx, email, "segredo1")
	if err != nil {
		t.Fatal(err)
	}
	if !login.Success {
		t.Fatal("advisor login failed")
	}

	// Moving the account off the advisor domain revokes access at login.
	if err := store.Update(ctx, "users", result.Profile.ID, map[string]any{"email": "claudia@gmail.com"}); err != nil {
		t.Fatal(err)
	}
	revoked, err := auth.Login(ctx, "claudia@gmail.com", "segredo1")
	if err != nil {
		t.Fatal(err)
	}
	if revoked.Success {
		t.Error("revoked advisor still logged in")
	}
}

func TestConfirmPasswordReset(t *testing.T) {
	store, logger := setupTest(t)
	auth := NewAuthService(store, nil, logger)
	ctx := context.Background()

	signup, err := auth.Signup(ctx, "Ana", "ana@exemplo.com", "antiga12", "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Create(ctx, "passwordResets", map[string]any{
		"userId":    signup.Profile.ID,
		"token":     "tok-valid",
		"expiresAt": time.Now().UTC().Add(time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	result, err := auth.ConfirmPasswordReset(ctx, "tok-valid", "novase78")
	if err != nil {
		t.Fatalf("ConfirmPasswordReset: %v", err)
	}
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}

	login, err := auth.Login(ctx, "ana@exemplo.com", "novase78")
	if err != nil {
		t.Fatal(err)
	}
	if !login.Success {
		t.Error("login with the new password failed")
	}

	// The token is single-use.
	reuse, err := auth.ConfirmPasswordReset(ctx, "tok-valid", "outra123")
	if err != nil {
		t.Fatal(err)
	}
	if reuse.Success {
		t.Error("reset token was reusable")
	}
}

func TestConfirmPasswordResetRejectsExpiredToken(t *testing.T) {
	store, logger := setupTest(t)
	auth := NewAuthService(store, nil, logger)
	ctx := context.Background()

	signup, err := auth.Signup(ctx, "Ana", "ana@exemplo.com", "antiga12", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, "passwordResets", map[string]any{
		"userId":    signup.Profile.ID,
		"token":     "tok-old",
		"expiresAt": time.Now().UTC().Add(-time.Minute),
	}); err != nil {
		t.Fatal(err)
	}

	result, err := auth.ConfirmPasswordReset(ctx, "tok-old", "novase78")
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Error("expired token accepted")
	}
}

func TestRecordMoodAndTodaySnapshot(t *testing.T) {
	store, logger := setupTest(t)
	broadcaster := messaging.NewSSEBroadcaster(logger)
	journal := NewJournalService(store, broadcaster, logger)
	ctx := context.Background()

	if _, err := journal.RecordMood(ctx, "student-a", "feliz"); err != nil {
		t.Fatalf("RecordMood: %v", err)
	}
	if _, err := journal.RecordMood(ctx, "student-a", "triste"); err != nil {
		t.Fatal(err)
	}
	// Another student's event must not leak into the snapshot.
	if _, err := journal.RecordMood(ctx, "student-b", "neutro"); err != nil {
		t.Fatal(err)
	}

	snapshot, err := journal.TodaySnapshot(ctx, "student-a")
	if err != nil {
		t.Fatalf("TodaySnapshot: %v", err)
	}
	if len(snapshot.Timeline) != 2 {
		t.Errorf("timeline len = %d, want 2", len(snapshot.Timeline))
	}
	if len(snapshot.Jar) != 2 {
		t.Errorf("jar len = %d, want 2", len(snapshot.Jar))
	}
	if len(snapshot.Moods) != 5 {
		t.Errorf("moods len = %d, want 5", len(snapshot.Moods))
	}
}

func TestRecordMoodRejectsUnknownKind(t *testing.T) {
	store, logger := setupTest(t)
	journal := NewJournalService(store, messaging.NewSSEBroadcaster(logger), logger)

	if _, err := journal.RecordMood(context.Background(), "student-a", "raiva"); err == nil {
		t.Error("unknown mood accepted")
	}
}

func TestSnapshotSkipsMalformedRecords(t *testing.T) {
	store, logger := setupTest(t)
	journal := NewJournalService(store, messaging.NewSSEBroadcaster(logger), logger)
	ctx := context.Background()

	if _, err := journal.RecordMood(ctx, "student-m", "feliz"); err != nil {
		t.Fatal(err)
	}
	// A record written with a mood id outside the closed set.
	if _, err := store.Create(ctx, "emocoes", map[string]any{
		"userId":    "student-m",
		"emocaoId":  "saudade",
		"timestamp": time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}

	snapshot, err := journal.TodaySnapshot(ctx, "student-m")
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot.Timeline) != 1 {
		t.Errorf("timeline len = %d, want 1 (malformed record skipped)", len(snapshot.Timeline))
	}
}

func TestTodaySnapshotJarExcludesPastDays(t *testing.T) {
	store, logger := setupTest(t)
	journal := NewJournalService(store, messaging.NewSSEBroadcaster(logger), logger)
	ctx := context.Background()

	// A week-old event belongs to the calendar, not to today's jar.
	if _, err := store.Create(ctx, "emocoes", map[string]any{
		"userId":    "student-j",
		"emocaoId":  "triste",
		"timestamp": time.Now().UTC().AddDate(0, 0, -7),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := journal.RecordMood(ctx, "student-j", "feliz"); err != nil {
		t.Fatal(err)
	}

	snapshot, err := journal.TodaySnapshot(ctx, "student-j")
	if err != nil {
		t.Fatalf("TodaySnapshot: %v", err)
	}
	if len(snapshot.Timeline) != 1 {
		t.Errorf("timeline len = %d, want 1", len(snapshot.Timeline))
	}
	if len(snapshot.Jar) != 1 {
		t.Fatalf("jar len = %d, want 1", len(snapshot.Jar))
	}
	if snapshot.Jar[0].Event.Kind != mood.KindFeliz {
		t.Errorf("jar kind = %s, want %s", snapshot.Jar[0].Event.Kind, mood.KindFeliz)
	}
}

func TestJournalSubscribePushesSnapshots(t *testing.T) {
	store, logger := setupTest(t)
	broadcaster := messaging.NewSSEBroadcaster(logger)
	journal := NewJournalService(store, broadcaster, logger)
	ctx := context.Background()

	ch := broadcaster.AddClient("student-live")
	defer broadcaster.RemoveClient(ch, "student-live")

	disposer, err := journal.Subscribe("student-live")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer disposer.Dispose()

	// Registration delivers the current (empty) snapshot synchronously.
	select {
	case message := <-ch:
		if !strings.HasPrefix(message, "event: journal_updated\n") {
			t.Fatalf("unexpected initial event: %q", message)
		}
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot delivered")
	}

	if _, err := journal.RecordMood(ctx, "student-live", "otimo"); err != nil {
		t.Fatal(err)
	}

	select {
	case message := <-ch:
		if !strings.HasPrefix(message, "event: journal_updated\n") {
			t.Errorf("unexpected event: %q", message)
		}
		if !strings.Contains(message, "otimo") {
			t.Errorf("snapshot missing the recorded mood: %q", message)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered after write")
	}
}

func TestJournalStreamsShareOneSubscription(t *testing.T) {
	store, logger := setupTest(t)
	broadcaster := messaging.NewSSEBroadcaster(logger)
	journal := NewJournalService(store, broadcaster, logger)
	ctx := context.Background()

	drain := func(ch chan string) int {
		n := 0
		for {
			select {
			case <-ch:
				n++
			default:
				return n
			}
		}
	}

	ch1 := broadcaster.AddClient("student-s")
	defer broadcaster.RemoveClient(ch1, "student-s")
	ch2 := broadcaster.AddClient("student-s")
	defer broadcaster.RemoveClient(ch2, "student-s")

	first, err := journal.Subscribe("student-s")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	second, err := journal.Subscribe("student-s")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	drain(ch1)
	drain(ch2)

	// Delivery is synchronous through the write path, so the channels hold
	// the full fan-out by the time RecordMood returns.
	if _, err := journal.RecordMood(ctx, "student-s", "feliz"); err != nil {
		t.Fatal(err)
	}
	if got := drain(ch1); got != 1 {
		t.Errorf("stream 1 received %d snapshots per write, want 1", got)
	}
	if got := drain(ch2); got != 1 {
		t.Errorf("stream 2 received %d snapshots per write, want 1", got)
	}

	// One stream detaching must not tear down the shared subscription.
	first.Dispose()
	first.Dispose()
	if _, err := journal.RecordMood(ctx, "student-s", "triste"); err != nil {
		t.Fatal(err)
	}
	if got := drain(ch1); got != 1 {
		t.Errorf("after one detach, received %d snapshots, want 1", got)
	}
	drain(ch2)

	// The last detach does.
	second.Dispose()
	if _, err := journal.RecordMood(ctx, "student-s", "neutro"); err != nil {
		t.Fatal(err)
	}
	if got := drain(ch1); got != 0 {
		t.Errorf("after last detach, received %d snapshots, want 0", got)
	}
}

func TestHistoryYearAndDay(t *testing.T) {
	store, logger := setupTest(t)
	journal := NewJournalService(store, messaging.NewSSEBroadcaster(logger), logger)
	history := NewHistoryService(store, journal.Normalizer(), logger)
	ctx := context.Background()

	loc := journal.Normalizer().Location()
	stamps := []time.Time{
		time.Date(2025, time.February, 10, 9, 0, 0, 0, loc),
		time.Date(2025, time.February, 10, 18, 0, 0, 0, loc),
		time.Date(2025, time.August, 3, 12, 0, 0, 0, loc),
		time.Date(2024, time.December, 25, 12, 0, 0, 0, loc),
	}
	for _, ts := range stamps {
		if _, err := store.Create(ctx, "emocoes", map[string]any{
			"userId":    "student-h",
			"emocaoId":  "feliz",
			"timestamp": ts.UTC(),
		}); err != nil {
			t.Fatal(err)
		}
	}

	aggregate, err := history.Year(ctx, "student-h", 2025)
	if err != nil {
		t.Fatalf("Year: %v", err)
	}
	if len(aggregate.Months[1].Events) != 2 {
		t.Errorf("February events = %d, want 2", len(aggregate.Months[1].Events))
	}
	if len(aggregate.Months[7].Events) != 1 {
		t.Errorf("August events = %d, want 1", len(aggregate.Months[7].Events))
	}

	month, err := history.Month(ctx, "student-h", 2025, 1)
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if len(month.MarkedDays) != 1 || month.MarkedDays[0] != "2025-02-10" {
		t.Errorf("MarkedDays = %v", month.MarkedDays)
	}

	entries, err := history.Day(ctx, "student-h", 2025, 1, "2025-02-10")
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("day entries = %d, want 2", len(entries))
	}
	if entries[0].Time != "09:00" || entries[1].Time != "18:00" {
		t.Errorf("entry times = %s, %s", entries[0].Time, entries[1].Time)
	}
}

func TestHistoryMonthOutOfRange(t *testing.T) {
	store, logger := setupTest(t)
	journal := NewJournalService(store, messaging.NewSSEBroadcaster(logger), logger)
	history := NewHistoryService(store, journal.Normalizer(), logger)

	if _, err := history.Month(context.Background(), "u", 2025, 12); err == nil {
		t.Error("month 12 accepted (months are zero-based)")
	}
}

func TestApplyQuestionnaire(t *testing.T) {
	store, logger := setupTest(t)
	profiles := NewProfileService(store, nil, logger)
	ctx := context.Background()

	id, err := store.Create(ctx, "users", map[string]any{"nome": "Ana", "nivelAnsiedade": user.AnxietyLow})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		answers []int
		want    string
	}{
		{"all calm", []int{0, 0, 0, 0, 0, 0, 0}, user.AnxietyLow},
		{"moderate", []int{2, 1, 1, 2, 1, 1, 1}, user.AnxietyMedium},
		{"severe", []int{3, 3, 2, 2, 2, 2, 1}, user.AnxietyHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := profiles.ApplyQuestionnaire(ctx, id, tt.answers)
			if err != nil {
				t.Fatalf("ApplyQuestionnaire: %v", err)
			}
			if level != tt.want {
				t.Errorf("level = %s, want %s", level, tt.want)
			}

			stored, err := profiles.Get(ctx, id)
			if err != nil {
				t.Fatal(err)
			}
			if stored.AnxietyLevel != tt.want {
				t.Errorf("stored level = %s, want %s", stored.AnxietyLevel, tt.want)
			}
		})
	}

	if _, err := profiles.ApplyQuestionnaire(ctx, id, []int{1, 2}); err == nil {
		t.Error("short answer set accepted")
	}
	if _, err := profiles.ApplyQuestionnaire(ctx, id, []int{9, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Error("out-of-range answer accepted")
	}
}

func TestRosterListsOnlyStudentsSorted(t *testing.T) {
	store, logger := setupTest(t)
	roster := NewRosterService(store, logger)
	ctx := context.Background()

	seed := []map[string]any{
		{"nome": "Mariana", "tipo": "aluno"},
		{"nome": "Beatriz", "tipo": "aluno"},
		{"nome": "Cláudia", "tipo": "orientadora"},
	}
	for _, fields := range seed {
		if _, err := store.Create(ctx, "users", fields); err != nil {
			t.Fatal(err)
		}
	}

	students, err := roster.Students(ctx)
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("len = %d, want 2", len(students))
	}
	if students[0].Name != "Beatriz" || students[1].Name != "Mariana" {
		t.Errorf("order = %s, %s", students[0].Name, students[1].Name)
	}
}

func TestChatSendAndHistory(t *testing.T) {
	store, logger := setupTest(t)
	chatSvc := NewChatService(store, logger)
	ctx := context.Background()

	student := &security.Session{UserID: "student-c", Email: "aluna@exemplo.com", Role: user.RoleStudent}
	advisor := &security.Session{UserID: "advisor-1", Email: "claudia" + config.AdvisorDomain, Role: user.RoleAdvisor}

	if _, err := chatSvc.Send(ctx, "student-c", student, "Olá!"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := chatSvc.Send(ctx, "student-c", advisor, "Oi, tudo bem?"); err != nil {
		t.Fatal(err)
	}
	if _, err := chatSvc.Send(ctx, "student-c", student, "   "); err == nil {
		t.Error("blank message accepted")
	}

	messages, err := chatSvc.History(ctx, "student-c")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("len = %d, want 2", len(messages))
	}
	if messages[0].Text != "Olá!" || messages[0].SenderID != "student-c" {
		t.Errorf("first message = %+v", messages[0])
	}
	if messages[1].SenderEmail != advisor.Email {
		t.Errorf("second sender = %s", messages[1].SenderEmail)
	}
}

func TestChatSubscribeDeliversTranscript(t *testing.T) {
	store, logger := setupTest(t)
	chatSvc := NewChatService(store, logger)
	ctx := context.Background()

	student := &security.Session{UserID: "student-s", Role: user.RoleStudent}

	var transcripts [][]string
	disposer, err := chatSvc.Subscribe("student-s", func(messages []chat.Message, err error) {
		if err != nil {
			t.Errorf("snapshot err = %v", err)
			return
		}
		texts := make([]string, 0, len(messages))
		for _, m := range messages {
			texts = append(texts, m.Text)
		}
		transcripts = append(transcripts, texts)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer disposer.Dispose()

	if _, err := chatSvc.Send(ctx, "student-s", student, "primeira"); err != nil {
		t.Fatal(err)
	}
	if _, err := chatSvc.Send(ctx, "student-s", student, "segunda"); err != nil {
		t.Fatal(err)
	}

	if len(transcripts) != 3 {
		t.Fatalf("deliveries = %d, want 3", len(transcripts))
	}
	last := transcripts[2]
	if len(last) != 2 || last[0] != "primeira" || last[1] != "segunda" {
		t.Errorf("final transcript = %v", last)
	}
}
