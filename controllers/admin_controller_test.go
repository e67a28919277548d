package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

func TestRejectBody(t *testing.T) {
	e := newEnv(t)
	users := repository.NewUserRepository(e.db)
	shipper := &entity.User{UserName: "dung", Email: "dung@nom.test", PhoneNumber: "3", Role: entity.RoleShipper}
	if err := users.Create(shipper); err != nil {
		t.Fatal(err)
	}
	admin := NewAdminController(services.NewAdminService(users, repository.NewOrderRepository(e.db), nil), nil, nil)
	e.router.PATCH("/admin/users/:id/reject", admin.Reject)
	path := fmt.Sprintf("/admin/users/%d/reject", shipper.ID)

	cases := []struct {
		name string
		body any
		want int
	}{
		{"no body", nil, http.StatusOK},
		{"reason", gin.H{"reason": "ID photo is blurry"}, http.StatusOK},
		{"malformed json", `{"reason":`, http.StatusBadRequest},
		{"wrong type", `{"reason": 5}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, res := e.call(t, http.MethodPatch, path, tc.body)
			if code != tc.want {
				t.Fatalf("status = %d %+v, want %d", code, res, tc.want)
			}
		})
	}
}
