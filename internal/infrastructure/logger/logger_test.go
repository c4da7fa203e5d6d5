package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given the Logger package", t, func() {
		Convey("New function", func() {
			Convey("When creating a logger with console output only", func() {
				var buf bytes.Buffer
				logger, err := New(Options{Level: "info", Console: &buf})

				Convey("It should write plain lines to the console", func() {
					So(err, ShouldBeNil)
					So(logger, ShouldNotBeNil)

					logger.Infof("Uploading %d file(s)", 3)
					So(buf.String(), ShouldContainSubstring, "INFO")
					So(buf.String(), ShouldContainSubstring, "Uploading 3 file(s)")
				})
			})

			Convey("When no console writer is given", func() {
				logger, err := New(Options{Level: "info"})

				Convey("It should still log without panicking", func() {
					So(err, ShouldBeNil)
					So(func() { logger.Info("Test log") }, ShouldNotPanic)
				})
			})

			Convey("When creating a logger with a valid log file", func() {
				tempDir, err := os.MkdirTemp("", "logger_test")
				So(err, ShouldBeNil)
				defer os.RemoveAll(tempDir)

				logFile := filepath.Join(tempDir, "logs", "mongos3.log")
				var buf bytes.Buffer

				logger, err := New(Options{Level: "debug", File: logFile, Console: &buf})

				Convey("It should write JSON lines to the file", func() {
					So(err, ShouldBeNil)

					logger.Debugw("Test debug log", "database", "shop")
					logger.Sync()

					content, err := os.ReadFile(logFile)
					So(err, ShouldBeNil)
					So(string(content), ShouldContainSubstring, `"msg":"Test debug log"`)
					So(string(content), ShouldContainSubstring, `"database":"shop"`)

					logger.Close()
				})
			})

			Convey("When creating a logger with an invalid log level", func() {
				var buf bytes.Buffer
				logger, err := New(Options{Level: "invalid", Console: &buf})

				Convey("It should default to Info level", func() {
					So(err, ShouldBeNil)

					logger.Debug("hidden")
					logger.Info("shown")
					So(buf.String(), ShouldNotContainSubstring, "hidden")
					So(buf.String(), ShouldContainSubstring, "shown")
				})
			})

			Convey("When creating a logger with an invalid log file path", func() {
				tempDir, err := os.MkdirTemp("", "logger_test")
				So(err, ShouldBeNil)
				defer os.RemoveAll(tempDir)

				blocker := filepath.Join(tempDir, "file")
				So(os.WriteFile(blocker, []byte("x"), 0644), ShouldBeNil)

				logger, err := New(Options{Level: "info", File: filepath.Join(blocker, "sub", "test.log")})

				Convey("It should return an error", func() {
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, "failed to create log directory")
					So(logger, ShouldBeNil)
				})
			})
		})

		Convey("NewNop function", func() {
			logger := NewNop()

			Convey("It should discard everything", func() {
				So(func() { logger.Errorf("nothing %s", "here") }, ShouldNotPanic)
				So(func() { logger.Close() }, ShouldNotPanic)
			})
		})

		Convey("Close method", func() {
			Convey("When closing a logger with console output only", func() {
				logger, err := New(Options{Level: "info", Console: &bytes.Buffer{}})
				So(err, ShouldBeNil)

				Convey("It should close without error", func() {
					So(func() { logger.Close() }, ShouldNotPanic)
				})
			})
		})
	})
}
