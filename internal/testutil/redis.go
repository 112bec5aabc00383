package testutil

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-redis/redis/v8"
)

// NewRedis 启动进程内的最小 RESP 服务，只支持 PING/GET/SET/DEL/INCR，不处理过期
func NewRedis(t testing.TB) *redis.Client {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := &fakeRedis{data: make(map[string]string)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.serve(conn)
		}
	}()

	rdb := redis.NewClient(&redis.Options{Addr: ln.Addr().String()})
	t.Cleanup(func() {
		rdb.Close()
		ln.Close()
	})
	return rdb
}

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func (s *fakeRedis) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		s.exec(w, args)
		if err := w.Flush(); err != nil {
			return
		}
	}
}

func (s *fakeRedis) exec(w *bufio.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprint(w, "-ERR empty command\r\n")
		return
	}

	cmd := strings.ToUpper(args[0])
	if cmd != "PING" && len(args) < 2 || cmd == "SET" && len(args) < 3 {
		fmt.Fprintf(w, "-ERR wrong number of arguments for '%s'\r\n", args[0])
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd {
	case "PING":
		fmt.Fprint(w, "+PONG\r\n")
	case "GET":
		value, ok := s.data[args[1]]
		if !ok {
			fmt.Fprint(w, "$-1\r\n")
			return
		}
		fmt.Fprintf(w, "$%d\r\n%s\r\n", len(value), value)
	case "SET":
		s.data[args[1]] = args[2]
		fmt.Fprint(w, "+OK\r\n")
	case "DEL":
		deleted := 0
		for _, key := range args[1:] {
			if _, ok := s.data[key]; ok {
				delete(s.data, key)
				deleted++
			}
		}
		fmt.Fprintf(w, ":%d\r\n", deleted)
	case "INCR":
		current, _ := strconv.ParseInt(s.data[args[1]], 10, 64)
		current++
		s.data[args[1]] = strconv.FormatInt(current, 10)
		fmt.Fprintf(w, ":%d\r\n", current)
	default:
		fmt.Fprintf(w, "-ERR unknown command '%s'\r\n", args[0])
	}
}

// readCommand 解析 RESP 数组形式的命令
func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "*") {
		return strings.Fields(line), nil
	}

	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		header, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(header, "$") {
			return nil, fmt.Errorf("unexpected header %q", header)
		}
		size, err := strconv.Atoi(header[1:])
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
