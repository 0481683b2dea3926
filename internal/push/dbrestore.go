package push

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"backline.dev/launcher/internal/configloader"
)

// CommandRunner executes one command on the VM with an attached stdin
// stream.
type CommandRunner interface {
	Exec(command string, stdin io.Reader) (exitCode int, stderr string, err error)
}

// Restorer streams a SQL dump out of the archive into psql running on the
// VM. The dump never touches the remote disk.
type Restorer struct {
	Runner CommandRunner
	Config configloader.DBRestore
}

// ErrNoSQLMember marks an enabled restore with no matching dump in the
// archive.
type NoSQLMemberError struct {
	Glob string
}

func (err *NoSQLMemberError) Error() string {
	return fmt.Sprintf("no archive member matches sql_glob %q", err.Glob)
}

// Restore picks the dump member, optionally drops and recreates the
// database, and pipes the dump into psql.
func (restorer *Restorer) Restore(source Source) (err error) {
	if restorer.Config.DBName == "" {
		err = errors.New("database restore requires db_name")
		return
	}
	if restorer.Config.DBUser == "" {
		err = errors.New("database restore requires db_user")
		return
	}
	var names []string
	if names, err = source.Names(); err != nil {
		return
	}
	memberName := restorer.matchSQLMember(names)
	if memberName == "" {
		err = &NoSQLMemberError{Glob: restorer.Config.SQLGlob}
		return
	}
	logrus.Infof("Restoring database %s from %s", restorer.Config.DBName, memberName)

	if restorer.Config.DropBefore {
		dropCommand := restorer.pgPrefix() + shellQuote(restorer.dbToolPath("dropdb")) +
			restorer.connectionFlags() + " --if-exists " + shellQuote(restorer.Config.DBName)
		if err = restorer.run(dropCommand, nil); err != nil {
			return
		}
	}
	if restorer.Config.CreateDBIfMissing {
		createCommand := restorer.pgPrefix() + shellQuote(restorer.dbToolPath("createdb")) +
			restorer.connectionFlags() + " " + shellQuote(restorer.Config.DBName)
		if createErr := restorer.run(createCommand, nil); createErr != nil {
			// createdb fails when the database already exists.
			logrus.Debugf("createdb: %v", createErr)
		}
	}

	var dump io.ReadCloser
	if dump, err = source.OpenMember(memberName); err != nil {
		return
	}
	defer dump.Close()

	restoreCommand := restorer.pgPrefix() + shellQuote(restorer.Config.PsqlPath) +
		restorer.connectionFlags() + " -d " + shellQuote(restorer.Config.DBName) +
		" -v ON_ERROR_STOP=1"
	return restorer.run(restoreCommand, dump)
}

// matchSQLMember matches the glob against the full member path, or against
// the base name when the pattern has no slash. Ties resolve to the last
// name in sort order.
func (restorer *Restorer) matchSQLMember(names []string) string {
	pattern := restorer.Config.SQLGlob
	var matches []string
	for _, name := range names {
		normalized := NormalizeArcPath(name)
		candidate := normalized
		if !strings.Contains(pattern, "/") {
			candidate = path.Base(normalized)
		}
		if matched, matchErr := path.Match(pattern, candidate); matchErr == nil && matched {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[len(matches)-1]
}

func (restorer *Restorer) run(command string, stdin io.Reader) (err error) {
	logrus.Debugf("Executing %s", command)
	exitCode, stderr, execErr := restorer.Runner.Exec(command, stdin)
	if execErr != nil {
		err = execErr
		return
	}
	if exitCode != 0 {
		err = fmt.Errorf("remote command exited with %d: %s", exitCode, strings.TrimSpace(stderr))
	}
	return
}

func (restorer *Restorer) pgPrefix() string {
	if restorer.Config.DBPassword == "" {
		return ""
	}
	return "PGPASSWORD=" + shellQuote(restorer.Config.DBPassword) + " "
}

func (restorer *Restorer) connectionFlags() string {
	flags := fmt.Sprintf(" -h %s -p %d", shellQuote(restorer.Config.DBHost), restorer.Config.DBPort)
	if restorer.Config.DBUser != "" {
		flags += " -U " + shellQuote(restorer.Config.DBUser)
	}
	return flags
}

// dbToolPath resolves a sibling of psql, so a custom psql_path carries its
// directory over to dropdb and createdb.
func (restorer *Restorer) dbToolPath(tool string) string {
	if dir := path.Dir(restorer.Config.PsqlPath); dir != "." {
		return path.Join(dir, tool)
	}
	return tool
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
