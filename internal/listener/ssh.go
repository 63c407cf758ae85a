package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"
)

// sshSession is an ssh channel that carries the login user as a name hint.
type sshSession struct {
	io.ReadWriter
	user string
}

func (s *sshSession) PlayerName() string {
	return s.user
}

// SshListener serves players over ssh. Clients are not authenticated; the
// ssh user only suggests a player name and accounts carry their own password.
type SshListener struct {
	addr     string
	acceptor Acceptor
	config   *ssh.ServerConfig
}

func NewSshListener(addr string, acceptor Acceptor, hostKey ssh.Signer) *SshListener {
	config := &ssh.ServerConfig{NoClientAuth: true}
	config.AddHostKey(hostKey)

	return &SshListener{
		addr:     addr,
		acceptor: acceptor,
		config:   config,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listening for ssh on %s: %w", l.addr, err)
	}
	slog.InfoContext(ctx, "listening for ssh", "addr", ln.Addr())

	connCtx, cancelConns := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer func() {
		cancelConns()
		wg.Wait()
	}()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.serveConn(connCtx, conn)
		}()
	}
}

func (l *SshListener) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sc, chans, reqs, err := ssh.NewServerConn(conn, l.config)
	if err != nil {
		slog.WarnContext(ctx, "ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer sc.Close()
	slog.InfoContext(ctx, "ssh connection established", "remote", sc.RemoteAddr(), "user", sc.User())

	// Closing the connection ends the channel loop below.
	stop := context.AfterFunc(ctx, func() { _ = sc.Close() })
	defer stop()

	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "only session channels are supported")
			continue
		}

		ch, requests, err := nc.Accept()
		if err != nil {
			slog.WarnContext(ctx, "accepting ssh channel", "error", err)
			continue
		}

		if !waitForShell(ctx, requests) {
			_ = ch.Close()
			continue
		}

		l.acceptor.AcceptConnection(ctx, &sshSession{
			ReadWriter: newLineConn(ch),
			user:       sc.User(),
		})
		_ = ch.Close()
	}
}

// waitForShell answers channel requests until the client asks for a shell.
// Clients do not send input before the shell request is accepted. Pty
// requests are refused so the client keeps local echo and line editing.
func waitForShell(ctx context.Context, requests <-chan *ssh.Request) bool {
	shell := make(chan bool, 1)
	go func() {
		sent := false
		for req := range requests {
			ok := req.Type == "shell"
			if req.WantReply {
				_ = req.Reply(ok, nil)
			}
			if ok && !sent {
				shell <- true
				sent = true
			}
		}
		if !sent {
			shell <- false
		}
	}()

	select {
	case ok := <-shell:
		return ok
	case <-ctx.Done():
		return false
	}
}
