// 命令行工具：在数据库中创建一个新用户。
// 密码通过终端隐藏输入，不会出现在命令行参数或 shell 历史中。
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"

	"dialab-go/internal/config"
	"dialab-go/internal/repository"
	"dialab-go/internal/service"
	"dialab-go/pkg/database"
	"dialab-go/pkg/log"

	"golang.org/x/term"
)

func main() {
	var (
		configPath = flag.String("config", "./configs/config.yaml", "配置文件路径")
		username   = flag.String("username", "", "新用户的用户名")
		role       = flag.String("role", "user", "用户角色 (user 或 admin)")
	)
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "错误: 必须通过 --username 指定用户名")
		flag.Usage()
		os.Exit(1)
	}

	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	database.InitMySQL(cfg.Database.MySQL.DSN)

	password, err := readPassword(fmt.Sprintf("请输入用户 %s 的密码: ", *username))
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取密码失败: %v\n", err)
		os.Exit(1)
	}
	confirm, err := readPassword("请再次输入密码确认: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取密码失败: %v\n", err)
		os.Exit(1)
	}
	if password != confirm {
		fmt.Fprintln(os.Stderr, "错误: 两次输入的密码不一致")
		os.Exit(1)
	}

	userRepository := repository.NewUserRepository(database.DB)
	authService := service.NewAuthService(userRepository)

	user, err := authService.CreateUser(*username, password, *role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			fmt.Fprintf(os.Stderr, "错误: 用户名 %s 已存在\n", *username)
		} else {
			fmt.Fprintf(os.Stderr, "创建用户失败: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("用户创建成功: id=%d username=%s role=%s\n", user.ID, user.Username, user.Role)
}

// readPassword 从终端读取密码，输入内容不回显。
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
