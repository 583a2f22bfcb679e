// internal/app/features/dashboard/bird.go
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	"github.com/dalemusser/classmentor/internal/app/store/queries/pairqueries"
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/dalemusser/classmentor/internal/app/system/chatroom"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errBadPercent = errors.New("percent must be 0-100 in steps of 10")

// progressRow is one subject/unit/percent line in a progress table.
type progressRow struct {
	Subject string
	Unit    string
	Percent int
}

// buddyRow is one mentored buddy on the bird dashboard.
type buddyRow struct {
	BuddyID      string
	PairID       string
	FullName     string
	Course       string
	Year         string
	ChatURL      string
	MessageCount int64
	Progress     []progressRow
}

type birdDashboardData struct {
	viewdata.BaseVM
	Buddies []buddyRow
	Error   string
}

// ServeBird renders the bird dashboard: the bird's buddies with chat
// links and a progress editor per buddy.
func (h *Handler) ServeBird(w http.ResponseWriter, r *http.Request, user *auth.SessionUser) {
	birdID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bad user id in session", err,
			"Could not load your dashboard.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	views, err := pairqueries.ListPairViewsByBird(ctx, h.DB, birdID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list pairs for bird failed", err,
			"Could not load your buddies.", "/")
		return
	}

	rows := make([]buddyRow, 0, len(views))
	for _, v := range views {
		roomID := chatroom.RoomID(birdID, v.Buddy.ID)
		count, err := h.Messages.CountByRoom(ctx, roomID)
		if err != nil {
			h.Log.Warn("count chat messages failed",
				zap.String("room_id", roomID), zap.Error(err))
		}
		rows = append(rows, buddyRow{
			BuddyID:      v.Buddy.ID.Hex(),
			PairID:       v.Pair.ID.Hex(),
			FullName:     v.Buddy.FullName,
			Course:       v.Buddy.Course,
			Year:         v.Buddy.Year,
			ChatURL:      "/chat/" + roomID,
			MessageCount: count,
			Progress:     progressRows(v.Buddy.Progress),
		})
	}

	data := birdDashboardData{
		BaseVM:  viewdata.NewBaseVM(r, "My Buddies", "/"),
		Buddies: rows,
	}
	templates.Render(w, r, "dashboard_bird", data)
}

// HandleProgressPost handles POST /dashboard/progress/{buddyID}. The
// submitted rows replace the buddy's whole progress map. Only the
// buddy's assigned bird may write.
func (h *Handler) HandleProgressPost(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	birdID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bad user id in session", err,
			"Could not save progress.", "/dashboard")
		return
	}

	buddyID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "buddyID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad buddy id", err,
			"That buddy does not exist.", "/dashboard")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse progress form failed", err,
			"Could not read the submitted progress.", "/dashboard")
		return
	}

	progress, err := parseProgressForm(r.PostForm["subject"], r.PostForm["unit"], r.PostForm["percent"])
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid progress values", err,
			"Progress values must be 0-100 in steps of 10.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Only the assigned bird may write a buddy's progress.
	pair, err := h.Pairs.GetByBuddy(ctx, buddyID)
	if err != nil || pair.BirdID != birdID {
		uierrors.RenderForbidden(w, r, "Only the assigned bird can update this buddy's progress.", "/dashboard")
		return
	}

	if err := h.Users.UpdateProgress(ctx, buddyID, progress); err != nil {
		h.ErrLog.LogServerError(w, r, "update progress failed", err,
			"Could not save progress.", "/dashboard")
		return
	}

	h.Log.Info("progress updated",
		zap.String("bird_id", birdID.Hex()),
		zap.String("buddy_id", buddyID.Hex()),
		zap.Int("subjects", len(progress)))

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// parseProgressForm builds a progress map from parallel subject/unit/
// percent form arrays. Rows with a blank subject or unit are skipped;
// percentages must be 0-100 in steps of 10.
func parseProgressForm(subjects, units, percents []string) (map[string]map[string]int, error) {
	n := len(subjects)
	if len(units) < n {
		n = len(units)
	}
	if len(percents) < n {
		n = len(percents)
	}

	progress := make(map[string]map[string]int)
	for i := 0; i < n; i++ {
		subject, unit := subjects[i], units[i]
		if subject == "" || unit == "" {
			continue
		}
		pct, err := strconv.Atoi(percents[i])
		if err != nil {
			return nil, err
		}
		if pct < 0 || pct > 100 || pct%10 != 0 {
			return nil, errBadPercent
		}
		if progress[subject] == nil {
			progress[subject] = make(map[string]int)
		}
		progress[subject][unit] = pct
	}
	return progress, nil
}

// progressRows flattens a progress map into sorted display rows.
func progressRows(progress map[string]map[string]int) []progressRow {
	var rows []progressRow
	for subject, units := range progress {
		for unit, pct := range units {
			rows = append(rows, progressRow{Subject: subject, Unit: unit, Percent: pct})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Subject != rows[j].Subject {
			return rows[i].Subject < rows[j].Subject
		}
		return rows[i].Unit < rows[j].Unit
	})
	return rows
}
