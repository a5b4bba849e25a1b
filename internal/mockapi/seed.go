package mockapi

import (
	"fmt"
	"time"

	"taskdemo/internal/service"
)

// Demo client IDs created by Seed.
const (
	DemoClientAcme   = "8b6f2a3e-0d4c-4a51-9f3e-2f1a7c9d0e11"
	DemoClientGlobex = "c4e1d7b2-5a6f-4e3d-8b2c-9a0f1e2d3c44"
)

// Seed fills the store with two clients and enough tasks to page through.
func Seed(s *Store, now time.Time) {
	s.AddClient(DemoClientAcme, "Acme Corp")
	s.AddClient(DemoClientGlobex, "Globex")

	for i := 1; i <= 23; i++ {
		created := now.Add(-time.Duration(24-i) * time.Hour).UTC()
		status := service.StatusTodo
		if i%3 == 0 {
			status = service.StatusDone
		}
		t := service.Task{
			ClientID:  DemoClientAcme,
			Title:     fmt.Sprintf("Acme task %d", i),
			Status:    status,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if i%5 == 0 {
			due := now.Add(-48 * time.Hour).UTC()
			t.DueDate = &due
			t.Description = "Follow up with the account manager"
		}
		s.Put(t)
	}

	created := now.Add(-2 * time.Hour).UTC()
	s.Put(service.Task{
		ClientID:    DemoClientGlobex,
		Title:       "Quarterly review",
		Description: "Prepare slides",
		CreatedAt:   created,
		UpdatedAt:   created,
	})
}
