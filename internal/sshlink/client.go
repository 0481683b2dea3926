package sshlink

import (
	"bytes"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

const dialTimeout = 30 * time.Second

// Link is one authenticated SSH connection to the VM, shared by the SFTP
// channel and the exec channels.
type Link struct {
	client *ssh.Client
}

// Dial opens the connection. A non-empty keyfile selects private-key
// authentication (any key type the ssh package understands), otherwise the
// password is used. Host keys are accepted unseen, matching the behavior of
// the legacy scripts.
func Dial(host string, port int, user string, keyfile string, password string) (link *Link, err error) {
	var authMethods []ssh.AuthMethod
	if keyfile != "" {
		var keyData []byte
		if keyData, err = os.ReadFile(keyfile); err != nil {
			logrus.Error("Cannot read the private key file")
			logrus.Errorf("%+v", err)
			return
		}
		var signer ssh.Signer
		if signer, err = ssh.ParsePrivateKey(keyData); err != nil {
			logrus.Error("Cannot parse the private key file")
			logrus.Errorf("%+v", err)
			return
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	} else {
		authMethods = append(authMethods, ssh.Password(password))
	}

	clientConfiguration := &ssh.ClientConfig{
		User:            user,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}
	var client *ssh.Client
	if client, err = ssh.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)), clientConfiguration); err != nil {
		return
	}
	link = &Link{client: client}
	return
}

// SFTP opens the file transfer channel.
func (link *Link) SFTP() (fs *FS, err error) {
	var client *sftp.Client
	if client, err = sftp.NewClient(link.client); err != nil {
		return
	}
	fs = &FS{client: client}
	return
}

// Exec runs a remote command, streaming stdin into it, and returns the
// remote exit status together with the captured standard error.
func (link *Link) Exec(command string, stdin io.Reader) (exitCode int, stderr string, err error) {
	var session *ssh.Session
	if session, err = link.client.NewSession(); err != nil {
		return
	}
	defer session.Close()

	stderrBuffer := &bytes.Buffer{}
	session.Stdin = stdin
	session.Stderr = stderrBuffer

	if err = session.Run(command); err != nil {
		stderr = stderrBuffer.String()
		if exitError, ok := err.(*ssh.ExitError); ok {
			return exitError.ExitStatus(), stderr, nil
		}
		return
	}
	return 0, stderrBuffer.String(), nil
}

func (link *Link) Close() error {
	return link.client.Close()
}
