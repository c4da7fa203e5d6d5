package storage

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLocalStorage(t *testing.T) {
	Convey("Given a LocalStorage", t, func() {
		tempDir, err := os.MkdirTemp("", "local_storage_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		Convey("NewLocal", func() {
			Convey("When creating with valid path", func() {
				storage, err := NewLocal(tempDir)

				Convey("It should create successfully", func() {
					So(err, ShouldBeNil)
					So(storage, ShouldNotBeNil)
					So(storage.BasePath(), ShouldEqual, tempDir)
				})
			})

			Convey("When creating with non-existent path", func() {
				newPath := filepath.Join(tempDir, "backups", "nested")
				storage, err := NewLocal(newPath)

				Convey("It should create directory and succeed", func() {
					So(err, ShouldBeNil)
					So(storage, ShouldNotBeNil)

					info, err := os.Stat(newPath)
					So(err, ShouldBeNil)
					So(info.IsDir(), ShouldBeTrue)
				})
			})

			Convey("When the path is a regular file", func() {
				file := filepath.Join(tempDir, "file")
				So(os.WriteFile(file, []byte("x"), 0644), ShouldBeNil)

				_, err := NewLocal(file)

				Convey("It should return error", func() {
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, "failed to create directory")
				})
			})
		})

		Convey("Remove method", func() {
			storage, _ := NewLocal(tempDir)

			Convey("When removing a populated directory", func() {
				dir := filepath.Join(tempDir, "shop-2024-02-01T00-00-00-000Z", "shop")
				So(os.MkdirAll(dir, 0755), ShouldBeNil)
				So(os.WriteFile(filepath.Join(dir, "orders.bson.gz"), []byte("data"), 0644), ShouldBeNil)

				err := storage.Remove("shop-2024-02-01T00-00-00-000Z")

				Convey("It should delete it recursively", func() {
					So(err, ShouldBeNil)
					So(storage.Exists("shop-2024-02-01T00-00-00-000Z"), ShouldBeFalse)
				})
			})

			Convey("When removing something that does not exist", func() {
				So(storage.Remove("missing"), ShouldBeNil)
			})

			Convey("When asked to remove the base path", func() {
				err := storage.Remove("")

				Convey("It should refuse", func() {
					So(err, ShouldNotBeNil)
					_, statErr := os.Stat(tempDir)
					So(statErr, ShouldBeNil)
				})
			})
		})

		Convey("List method", func() {
			storage, _ := NewLocal(tempDir)

			Convey("When directory has entries", func() {
				os.Mkdir(filepath.Join(tempDir, "shop-b"), 0755)
				os.Mkdir(filepath.Join(tempDir, "shop-a"), 0755)
				os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("test"), 0644)

				dirs, err := storage.List()

				Convey("It should list only directories, sorted", func() {
					So(err, ShouldBeNil)
					So(dirs, ShouldResemble, []string{"shop-a", "shop-b"})
				})
			})

			Convey("When directory is empty", func() {
				dirs, err := storage.List()

				Convey("It should return empty list", func() {
					So(err, ShouldBeNil)
					So(len(dirs), ShouldEqual, 0)
				})
			})
		})

		Convey("GetPath method", func() {
			storage, _ := NewLocal(tempDir)

			Convey("When getting path for a name", func() {
				path := storage.GetPath("shop-ts")

				Convey("It should return full path", func() {
					So(path, ShouldEqual, filepath.Join(tempDir, "shop-ts"))
				})
			})
		})
	})
}
