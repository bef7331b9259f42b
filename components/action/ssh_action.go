/*
 * Copyright 2024 The ECA Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package action

// Rule definition example:
//
//	{
//	  "type": "ssh",
//	  "configuration": {
//	    "host": "192.168.1.1",
//	    "port": 22,
//	    "username": "root",
//	    "password": "password",
//	    "cmd": "systemctl restart ${event.service}"
//	  }
//	}
import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/ssh"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/maps"
	"github.com/MichRacz00/eca/utils/str"
)

func init() {
	Registry.Add(&Ssh{})
}

// SshConfiguration configures the component.
type SshConfiguration struct {
	Host     string
	Port     int
	Username string
	Password string
	// Cmd is the shell command, ${} placeholders are substituted per
	// event.
	Cmd string
	// ScopeKey stores the command output into this scope variable.
	ScopeKey string
}

// Ssh is an action running a shell command on a remote host.
type Ssh struct {
	Config SshConfiguration
	cmdVar bool

	mu     sync.Mutex
	client *ssh.Client
}

// Type returns the component type.
func (x *Ssh) Type() string {
	return "ssh"
}

func (x *Ssh) New() types.Component {
	return &Ssh{Config: SshConfiguration{
		Host: "127.0.0.1",
		Port: 22,
	}}
}

// Init validates the configuration. The connection is opened lazily.
func (x *Ssh) Init(config types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	if x.Config.Host == "" || x.Config.Username == "" {
		return errors.New("host and username can not be empty")
	}
	if x.Config.Port <= 0 {
		x.Config.Port = 22
	}
	if x.Config.Cmd == "" {
		return errors.New("cmd can not be empty")
	}
	x.cmdVar = str.CheckHasVar(x.Config.Cmd)
	return nil
}

// Execute runs the command in a fresh session.
func (x *Ssh) Execute(ctx context.Context, scope *types.Scope, event types.Event) error {
	client, err := x.getClient()
	if err != nil {
		return err
	}
	session, err := client.NewSession()
	if err != nil {
		// the connection may be gone, retry once with a new one
		x.resetClient()
		if client, err = x.getClient(); err != nil {
			return err
		}
		if session, err = client.NewSession(); err != nil {
			return err
		}
	}
	defer session.Close()

	cmd := x.Config.Cmd
	if x.cmdVar {
		cmd = str.ExecuteTemplate(cmd, Evn(scope, event))
	}
	output, err := session.CombinedOutput(cmd)
	if err != nil {
		return fmt.Errorf("ssh cmd failed: %w: %s", err, output)
	}
	if x.Config.ScopeKey != "" {
		scope.Set(x.Config.ScopeKey, string(output))
	}
	return nil
}

// Destroy closes the connection.
func (x *Ssh) Destroy() {
	x.resetClient()
}

func (x *Ssh) getClient() (*ssh.Client, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.client != nil {
		return x.client, nil
	}
	config := &ssh.ClientConfig{
		User: x.Config.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(x.Config.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	client, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", x.Config.Host, x.Config.Port), config)
	if err != nil {
		return nil, err
	}
	x.client = client
	return x.client, nil
}

func (x *Ssh) resetClient() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.client != nil {
		_ = x.client.Close()
		x.client = nil
	}
}
