package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"backline.dev/launcher/internal/configloader"
	"backline.dev/launcher/internal/folder"
	"backline.dev/launcher/internal/journal"
	"backline.dev/launcher/internal/journal/delegate"
	"backline.dev/launcher/internal/journal/delegate/sqlite"
	"backline.dev/launcher/internal/launcher"
	"backline.dev/launcher/internal/pull"
	"backline.dev/launcher/internal/push"
	"backline.dev/launcher/internal/resources"
	"backline.dev/launcher/internal/sshlink"
)

// Name of the current application. Used to load the configuration.
const APPLICATION_NAME = "backline"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(launcher.ExitLauncherFailure)
	}
	switch os.Args[1] {
	case "pull":
		os.Exit(runPull(os.Args[2:]))
	case "push":
		os.Exit(runPush(os.Args[2:]))
	case "history":
		os.Exit(runHistory(os.Args[2:]))
	default:
		usage()
		os.Exit(launcher.ExitLauncherFailure)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <pull|push|history> [options]\n", APPLICATION_NAME)
}

// loadConfig merges the configuration file with the command line: flags the
// user actually set win over file values.
func loadConfig(flagSet *flag.FlagSet, configurationFilePath string, fromFlags *configloader.Config) (configuration configloader.Config, err error) {
	if configuration, err = configloader.LoadConfiguration(APPLICATION_NAME, configurationFilePath); err != nil {
		return
	}
	flagSet.Visit(func(visited *flag.Flag) {
		switch visited.Name {
		case "host":
			configuration.Host = fromFlags.Host
		case "port":
			configuration.Port = fromFlags.Port
		case "user":
			configuration.User = fromFlags.User
		case "keyfile":
			configuration.Keyfile = fromFlags.Keyfile
		case "password":
			configuration.Password = fromFlags.Password
		case "remote-dir":
			configuration.RemoteDir = fromFlags.RemoteDir
		case "out":
			configuration.Out = fromFlags.Out
		case "exclude":
			configuration.Exclude = fromFlags.Exclude
		case "archive":
			configuration.Archive = fromFlags.Archive
		case "strip-top-level":
			configuration.StripTopLevel = fromFlags.StripTopLevel
		case "verbose":
			configuration.Verbose = fromFlags.Verbose
		}
	})
	return
}

func connectionFlags(flagSet *flag.FlagSet, fromFlags *configloader.Config) *string {
	configurationFilePath := flagSet.String("config", "", "Configuration file path")
	flagSet.StringVar(&fromFlags.Host, "host", "", "VM host name")
	flagSet.IntVar(&fromFlags.Port, "port", 22, "SSH port")
	flagSet.StringVar(&fromFlags.User, "user", "", "SSH user name")
	flagSet.StringVar(&fromFlags.Keyfile, "keyfile", "", "SSH private key file")
	flagSet.StringVar(&fromFlags.Password, "password", "", "SSH password")
	flagSet.BoolVar(&fromFlags.Verbose, "verbose", false, "Enable debug logging")
	return configurationFilePath
}

func setLogLevel(configuration configloader.Config) error {
	level, err := logrus.ParseLevel(configuration.LogLevel)
	if err != nil {
		return err
	}
	if configuration.Verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	return nil
}

func validateConnection(configuration configloader.Config) bool {
	if configuration.Host == "" {
		logrus.Error("No VM host configured")
		return false
	}
	if configuration.User == "" {
		logrus.Error("No SSH user configured")
		return false
	}
	if configuration.Keyfile == "" && configuration.Password == "" {
		logrus.Error("No SSH key file or password configured")
		return false
	}
	return true
}

func openJournal() *journal.Journal {
	instance := journal.NewJournal(&sqlite.SQLiteDelegate{BasePath: "."})
	if err := instance.Initialize(); err != nil {
		logrus.Warn("Cannot open the transfer journal")
		logrus.Warnf("%+v", err)
		return nil
	}
	return instance
}

func recordTransfer(instance *journal.Journal, transfer delegate.Transfer) {
	if instance == nil {
		return
	}
	transfer.FinishedAt = time.Now()
	instance.Record(transfer)
}

func runPull(args []string) int {
	fromFlags := &configloader.Config{}
	flagSet := flag.NewFlagSet("pull", flag.ExitOnError)
	configurationFilePath := connectionFlags(flagSet, fromFlags)
	flagSet.StringVar(&fromFlags.RemoteDir, "remote-dir", "", "Remote directory to archive")
	flagSet.StringVar(&fromFlags.Out, "out", "", "Local output directory")
	exclude := flagSet.String("exclude", "", "Comma separated path suffixes to skip")
	flagSet.Parse(args)
	if *exclude != "" {
		fromFlags.Exclude = strings.Split(*exclude, ",")
	}

	configuration, err := loadConfig(flagSet, *configurationFilePath, fromFlags)
	if err != nil {
		logrus.Errorf("%+v", err)
		return launcher.ExitLauncherFailure
	}
	if err = setLogLevel(configuration); err != nil {
		logrus.Errorf("%+v", err)
		return launcher.ExitLauncherFailure
	}
	if !validateConnection(configuration) {
		return launcher.ExitLauncherFailure
	}
	if configuration.RemoteDir == "" {
		logrus.Error("No remote directory configured")
		return launcher.ExitLauncherFailure
	}

	archivePath, err := pull.OutputZipPath(configuration.Out, time.Now())
	if err != nil {
		logrus.Error("Cannot prepare the output folder")
		logrus.Errorf("%+v", err)
		return launcher.ExitLauncherFailure
	}

	journalInstance := openJournal()
	if journalInstance != nil {
		defer journalInstance.Deinitialize()
	}
	transfer := delegate.Transfer{
		Operation: "pull",
		Host:      configuration.Host,
		RemoteDir: configuration.RemoteDir,
		Archive:   archivePath,
		StartedAt: time.Now(),
	}

	link, err := sshlink.Dial(configuration.Host, configuration.Port,
		configuration.User, configuration.Keyfile, configuration.Password)
	if err != nil {
		logrus.Error("Cannot connect to the VM")
		logrus.Errorf("%+v", err)
		transfer.Outcome = "failed"
		recordTransfer(journalInstance, transfer)
		return launcher.ExitSpawnFailure
	}
	defer link.Close()
	remoteFS, err := link.SFTP()
	if err != nil {
		logrus.Error("Cannot open the file transfer channel")
		logrus.Errorf("%+v", err)
		transfer.Outcome = "failed"
		recordTransfer(journalInstance, transfer)
		return launcher.ExitSpawnFailure
	}
	defer remoteFS.Close()

	engine := &pull.Engine{
		FS:        remoteFS,
		RemoteDir: configuration.RemoteDir,
		Exclude:   configuration.Exclude,
	}
	result, err := engine.Run(archivePath)
	if err != nil {
		logrus.Error("Pull failed")
		logrus.Errorf("%+v", err)
		transfer.Outcome = "failed"
		recordTransfer(journalInstance, transfer)
		return launcher.ExitSpawnFailure
	}
	transfer.Files = result.Files
	transfer.Bytes = result.Bytes
	transfer.Outcome = "ok"

	if configuration.Offsite.Access != "" && configuration.Offsite.Bucket != "" {
		if err = replicateOffsite(configuration.Offsite, archivePath); err != nil {
			logrus.Error("Cannot replicate the archive offsite")
			logrus.Errorf("%+v", err)
			transfer.Outcome = "ok, offsite failed"
		}
	}

	recordTransfer(journalInstance, transfer)
	return launcher.ExitOK
}

// replicateOffsite copies the finished archive to the configured bucket.
func replicateOffsite(offsite configloader.Offsite, archivePath string) error {
	objectKey := path.Join(offsite.Prefix, filepath.Base(archivePath))
	resource := &resources.StorjResource{
		URL:    url.URL{Scheme: "sj", Host: offsite.Bucket, Path: "/" + objectKey},
		Access: offsite.Access,
	}
	logrus.Infof("Replicating to sj://%s/%s", offsite.Bucket, objectKey)
	return resource.Upload(archivePath)
}

func runPush(args []string) int {
	fromFlags := &configloader.Config{}
	flagSet := flag.NewFlagSet("push", flag.ExitOnError)
	configurationFilePath := connectionFlags(flagSet, fromFlags)
	flagSet.StringVar(&fromFlags.RemoteDir, "remote-dir", "", "Remote directory to deploy into")
	flagSet.StringVar(&fromFlags.Archive, "archive", "", "Archive to deploy, local path or URL")
	flagSet.BoolVar(&fromFlags.StripTopLevel, "strip-top-level", false, "Drop the shared top level directory")
	flagSet.Parse(args)

	configuration, err := loadConfig(flagSet, *configurationFilePath, fromFlags)
	if err != nil {
		logrus.Errorf("%+v", err)
		return launcher.ExitLauncherFailure
	}
	if err = setLogLevel(configuration); err != nil {
		logrus.Errorf("%+v", err)
		return launcher.ExitLauncherFailure
	}
	if !validateConnection(configuration) {
		return launcher.ExitLauncherFailure
	}
	if configuration.RemoteDir == "" {
		logrus.Error("No remote directory configured")
		return launcher.ExitLauncherFailure
	}

	archivePath := configuration.Archive
	if archivePath == "" {
		if archivePath, err = launcher.SelectArchive(folder.ARCHIVES); err != nil {
			logrus.Error("Cannot select an archive to transfer")
			logrus.Errorf("%+v", err)
			return launcher.ExitLauncherFailure
		}
		logrus.Infof("Selected archive %s", archivePath)
	} else if resources.IsRemote(archivePath) {
		if archivePath, err = resources.FetchArchive(archivePath, folder.TEMP, configuration.Offsite.Access); err != nil {
			logrus.Error("Cannot fetch the archive")
			logrus.Errorf("%+v", err)
			return launcher.ExitLauncherFailure
		}
	}

	source, err := push.OpenSource(archivePath)
	if err != nil {
		logrus.Error("Cannot open the archive")
		logrus.Errorf("%+v", err)
		return launcher.ExitLauncherFailure
	}
	defer source.Close()

	journalInstance := openJournal()
	if journalInstance != nil {
		defer journalInstance.Deinitialize()
	}
	transfer := delegate.Transfer{
		Operation: "push",
		Host:      configuration.Host,
		RemoteDir: configuration.RemoteDir,
		Archive:   archivePath,
		StartedAt: time.Now(),
	}

	link, err := sshlink.Dial(configuration.Host, configuration.Port,
		configuration.User, configuration.Keyfile, configuration.Password)
	if err != nil {
		logrus.Error("Cannot connect to the VM")
		logrus.Errorf("%+v", err)
		transfer.Outcome = "failed"
		recordTransfer(journalInstance, transfer)
		return launcher.ExitSpawnFailure
	}
	defer link.Close()
	remoteFS, err := link.SFTP()
	if err != nil {
		logrus.Error("Cannot open the file transfer channel")
		logrus.Errorf("%+v", err)
		transfer.Outcome = "failed"
		recordTransfer(journalInstance, transfer)
		return launcher.ExitSpawnFailure
	}
	defer remoteFS.Close()

	engine := &push.Engine{
		Target:        remoteFS,
		RemoteDir:     configuration.RemoteDir,
		Routes:        push.BuildRoutes(configuration.FileMap),
		StripTopLevel: configuration.StripTopLevel,
	}
	result, err := engine.Deploy(source)
	if err != nil {
		logrus.Error("Push failed")
		logrus.Errorf("%+v", err)
		transfer.Outcome = "failed"
		recordTransfer(journalInstance, transfer)
		return launcher.ExitSpawnFailure
	}
	transfer.Files = result.Files
	transfer.Bytes = result.Bytes
	transfer.Outcome = "ok"

	if configuration.DBRestore.Enabled {
		restorer := &push.Restorer{Runner: link, Config: configuration.DBRestore}
		if err = restorer.Restore(source); err != nil {
			logrus.Error("Database restore failed")
			logrus.Errorf("%+v", err)
			transfer.Outcome = "ok, restore failed"
			recordTransfer(journalInstance, transfer)
			return launcher.ExitSpawnFailure
		}
	}

	recordTransfer(journalInstance, transfer)
	return launcher.ExitOK
}

func runHistory(args []string) int {
	flagSet := flag.NewFlagSet("history", flag.ExitOnError)
	configurationFilePath := flagSet.String("config", "", "Configuration file path")
	limit := flagSet.Int("limit", 20, "Number of transfers to list")
	flagSet.Parse(args)

	configuration, err := configloader.LoadConfiguration(APPLICATION_NAME, *configurationFilePath)
	if err != nil {
		logrus.Errorf("%+v", err)
		return launcher.ExitLauncherFailure
	}
	if err = setLogLevel(configuration); err != nil {
		logrus.Errorf("%+v", err)
		return launcher.ExitLauncherFailure
	}

	journalInstance := journal.NewJournal(&sqlite.SQLiteDelegate{BasePath: "."})
	if err = journalInstance.Initialize(); err != nil {
		logrus.Error("Cannot open the transfer journal")
		logrus.Errorf("%+v", err)
		return launcher.ExitSpawnFailure
	}
	defer journalInstance.Deinitialize()

	transfers, err := journalInstance.History(*limit)
	if err != nil {
		logrus.Errorf("%+v", err)
		return launcher.ExitSpawnFailure
	}
	for _, transfer := range transfers {
		fmt.Printf("%s  %-4s  %-24s  %s  files=%d bytes=%d  %s\n",
			transfer.StartedAt.Format("2006-01-02 15:04:05"),
			transfer.Operation, transfer.Host, transfer.Archive,
			transfer.Files, transfer.Bytes, transfer.Outcome)
	}
	return launcher.ExitOK
}
