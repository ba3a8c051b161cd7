// Package cli implements the gophid command-line client.
//
// Usage:
//
//	gophid [-a host:port] [-T seconds] [-f tokenfile] [-c config.json] <command> [args]
//
// Commands:
//
//	register [email] [name]   create an account and keep its token
//	login [email]             sign in and keep the token
//	create [email] [name]     create an account without signing in
//	whoami                    show the signed-in user
//	check                     renew the kept token
//	users                     list all users
//	logout                    forget the kept token
//
// Missing arguments are prompted for. Passwords are read without echo when
// stdin is a terminal, otherwise as a line from stdin.
package cli
