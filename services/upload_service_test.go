package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
)

type fakeStorage struct {
	puts    []string
	removed []string
	err     error
}

func (s *fakeStorage) Put(_ context.Context, folder, filename, _ string, r io.Reader, _ int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	url := "http://minio.test/nom/" + folder + "/" + filename
	s.puts = append(s.puts, url)
	return url, nil
}

func (s *fakeStorage) Remove(_ context.Context, url string) error {
	s.removed = append(s.removed, url)
	return nil
}

func image(folder, name string) UploadIn {
	return UploadIn{Folder: folder, Filename: name, ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
}

func TestUploadValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewUploadService(&fakeStorage{}, f.users)
	ctx := context.Background()

	big := image(FolderFoods, "a.png")
	big.Size = MaxUploadSize + 1
	cases := map[string]UploadIn{
		"unknown folder": image("secrets", "a.png"),
		"not an image":   image(FolderFoods, "a.exe"),
		"too large":      big,
	}
	for name, in := range cases {
		if _, err := svc.Upload(ctx, f.customer.ID, in); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: %v", name, err)
		}
	}

	if _, err := NewUploadService(nil, f.users).Upload(ctx, f.customer.ID, image(FolderFoods, "a.png")); !errors.Is(err, ErrUpstream) {
		t.Fatalf("no storage: %v", err)
	}
	failing := NewUploadService(&fakeStorage{err: errors.New("bucket missing")}, f.users)
	if _, err := failing.Upload(ctx, f.customer.ID, image(FolderFoods, "a.png")); !errors.Is(err, ErrUpstream) {
		t.Fatalf("storage failure: %v", err)
	}
}

func TestUploadUpdatesUserImages(t *testing.T) {
	f := newFixture(t)
	store := &fakeStorage{}
	svc := NewUploadService(store, f.users)
	ctx := context.Background()

	first, err := svc.Upload(ctx, f.shipper.ID, image(FolderIDImages, "front.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Upload(ctx, f.shipper.ID, image(FolderIDImages, "front2.JPG"))
	if err != nil {
		t.Fatal(err)
	}
	if len(store.removed) != 1 || store.removed[0] != first {
		t.Fatalf("removed = %v", store.removed)
	}

	avatar, err := svc.Upload(ctx, f.shipper.ID, image(FolderProfiles, "me.webp"))
	if err != nil {
		t.Fatal(err)
	}

	var u *entity.User
	if u, err = f.users.FindByID(f.shipper.ID); err != nil {
		t.Fatal(err)
	}
	if u.IDImage != second || u.ProfilePicture != avatar {
		t.Fatalf("user images = %q / %q", u.IDImage, u.ProfilePicture)
	}
}
