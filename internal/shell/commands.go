package shell

import (
	"context"
	"slices"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"autoboard/internal/client"
	"autoboard/internal/models"
)

// Execute runs a single command line, already split into args.
func (s *Shell) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}

	root := s.commands()
	if !known(root, args[0]) {
		return goerr.New("unknown command "+strconv.Quote(args[0])+", type help for a list", goerr.V("command", args[0]))
	}
	return root.Run(ctx, append([]string{root.Name}, args...))
}

func known(root *cli.Command, name string) bool {
	if name == "help" || name == "h" {
		return true
	}
	for _, cmd := range root.Commands {
		if cmd.Name == name || slices.Contains(cmd.Aliases, name) {
			return true
		}
	}
	return false
}

// commands builds a fresh command tree. Parsed flag values live on the
// commands, so the tree is never reused between lines.
func (s *Shell) commands() *cli.Command {
	cmds := []*cli.Command{
		s.cmdLogin(),
		s.cmdWhoami(),
		s.cmdTaskCreate(),
		s.cmdTaskUpdate(),
		s.cmdTaskDelete(),
		s.cmdTaskListAll(),
		s.cmdTaskListAssigned(),
		s.cmdTaskListProject(),
		s.cmdTaskAssign(),
		s.cmdStatusList(),
		s.cmdProjectList(),
		s.cmdProjectCreate(),
		s.cmdLogsTask(),
		s.cmdLogsProject(),
	}
	for _, cmd := range cmds {
		cmd.OnUsageError = func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return err
		}
	}

	return &cli.Command{
		Name:           "autoboard",
		Usage:          "Task board shell",
		Writer:         s.out.w,
		ErrWriter:      s.out.w,
		Commands:       cmds,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func idFlag(name, usage string) cli.Flag {
	return &cli.Int64Flag{Name: name, Usage: usage, Required: true}
}

func (s *Shell) cmdLogin() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with an ID token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", Usage: "ID token", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			user, err := s.session.Login(ctx, cmd.String("token"))
			if err != nil {
				return err
			}
			s.out.success("Logged in as %s (%s)", displayName(user), user.ID)
			return nil
		},
	}
}

func (s *Shell) cmdWhoami() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed in user",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			user, err := s.session.requireUser()
			if err != nil {
				return err
			}
			s.out.info("%s (%s) %s", displayName(user), user.ID, user.Email)
			return nil
		},
	}
}

func (s *Shell) cmdTaskCreate() *cli.Command {
	return &cli.Command{
		Name:  "task-create",
		Usage: "Create a new task for a project",
		Flags: []cli.Flag{idFlag("project-id", "Project ID")},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			user, err := s.session.requireUser()
			if err != nil {
				return err
			}
			s.out.info("Creating new task...")

			title, err := s.ask("Enter task title: ")
			if err != nil {
				return err
			}
			description, err := s.ask("Enter task description: ")
			if err != nil {
				return err
			}

			task, err := s.session.Client.CreateTask(ctx, client.CreateTaskRequest{
				Title:       title,
				Description: description,
				StatusID:    1,
				ProjectID:   cmd.Int64("project-id"),
				AssigneeID:  &user.ID,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to create task")
			}
			s.out.info("ID: %d", task.ID)
			s.out.info("Title: %s", task.Title)
			return nil
		},
	}
}

func (s *Shell) cmdTaskUpdate() *cli.Command {
	return &cli.Command{
		Name:  "task-update",
		Usage: "Update title, description or status of a task. Empty answers keep the current value",
		Flags: []cli.Flag{idFlag("id", "Task ID")},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s.out.info("Updating task...")

			statuses, err := s.session.Client.ListStatuses(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch statuses")
			}
			s.out.table([]string{"id", "name"}, statusRows(statuses))

			title, err := s.ask("Enter task title: ")
			if err != nil {
				return err
			}
			description, err := s.ask("Enter task description: ")
			if err != nil {
				return err
			}
			rawStatus, err := s.ask("Enter status Id: ")
			if err != nil {
				return err
			}

			var req client.UpdateTaskRequest
			if title != "" {
				req.Title = &title
			}
			if description != "" {
				req.Description = &description
			}
			if rawStatus != "" {
				statusID, err := strconv.ParseInt(rawStatus, 10, 64)
				if err != nil {
					return goerr.New("status id must be a number", goerr.V("status_id", rawStatus))
				}
				req.StatusID = &statusID
			}

			if _, err := s.session.Client.UpdateTask(ctx, cmd.Int64("id"), req); err != nil {
				return goerr.Wrap(err, "failed to update task")
			}
			s.out.success("Update successful!")
			return nil
		},
	}
}

func (s *Shell) cmdTaskDelete() *cli.Command {
	return &cli.Command{
		Name:  "task-delete",
		Usage: "Delete a task",
		Flags: []cli.Flag{idFlag("id", "Task ID")},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := s.session.Client.DeleteTask(ctx, cmd.Int64("id")); err != nil {
				return goerr.Wrap(err, "failed to delete task")
			}
			s.out.success("Task deleted successfully!")
			return nil
		},
	}
}

func (s *Shell) cmdTaskListAll() *cli.Command {
	return &cli.Command{
		Name:  "task-list-all",
		Usage: "List the tasks of every project",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s.out.info("Fetching all tasks...")
			return s.listTasks(ctx, models.TaskFilter{})
		},
	}
}

func (s *Shell) cmdTaskListAssigned() *cli.Command {
	return &cli.Command{
		Name:  "task-list-assigned",
		Usage: "List the tasks assigned to you",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			user, err := s.session.requireUser()
			if err != nil {
				return err
			}
			s.out.info("Fetching assigned tasks...")
			return s.listTasks(ctx, models.TaskFilter{AssigneeID: user.ID})
		},
	}
}

func (s *Shell) cmdTaskListProject() *cli.Command {
	return &cli.Command{
		Name:  "task-list-project",
		Usage: "List the tasks of one project",
		Flags: []cli.Flag{idFlag("project-id", "Project ID")},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s.out.info("Fetching tasks for project...")
			return s.listTasks(ctx, models.TaskFilter{ProjectID: cmd.Int64("project-id")})
		},
	}
}

func (s *Shell) listTasks(ctx context.Context, filter models.TaskFilter) error {
	tasks, err := s.session.Client.ListTasks(ctx, filter)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch tasks")
	}
	if len(tasks) == 0 {
		s.out.warning("No tasks found")
		return nil
	}
	s.out.table(taskHeaders, taskRows(tasks))
	return nil
}

func (s *Shell) cmdTaskAssign() *cli.Command {
	return &cli.Command{
		Name:  "task-assign",
		Usage: "Assign a task to a user",
		Flags: []cli.Flag{
			idFlag("task-id", "Task ID"),
			&cli.StringFlag{Name: "assignee-id", Usage: "User ID of the assignee", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s.out.info("Assigning task...")
			if _, err := s.session.Client.AssignTask(ctx, cmd.Int64("task-id"), cmd.String("assignee-id")); err != nil {
				return goerr.Wrap(err, "failed to assign task")
			}
			s.out.success("Task assigned successfully!")
			return nil
		},
	}
}

func (s *Shell) cmdStatusList() *cli.Command {
	return &cli.Command{
		Name:  "status-list",
		Usage: "List task statuses",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			statuses, err := s.session.Client.ListStatuses(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch statuses")
			}
			s.out.table([]string{"id", "name"}, statusRows(statuses))
			return nil
		},
	}
}

func (s *Shell) cmdProjectList() *cli.Command {
	return &cli.Command{
		Name:  "project-list",
		Usage: "List projects",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			projects, err := s.session.Client.ListProjects(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch projects")
			}
			if len(projects) == 0 {
				s.out.warning("No projects found")
				return nil
			}
			s.out.table([]string{"id", "name", "description", "color"}, projectRows(projects))
			return nil
		},
	}
}

func (s *Shell) cmdProjectCreate() *cli.Command {
	return &cli.Command{
		Name:  "project-create",
		Usage: "Create a project",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Project name", Required: true},
			&cli.StringFlag{Name: "description", Usage: "Project description"},
			&cli.StringFlag{Name: "color", Usage: "Hex color, picked at random when empty"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := s.session.Client.CreateProject(ctx, client.ProjectRequest{
				Name:        cmd.String("name"),
				Description: cmd.String("description"),
				Color:       cmd.String("color"),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to create project")
			}
			s.out.success("Project %d created: %s", p.ID, p.Name)
			return nil
		},
	}
}

func (s *Shell) cmdLogsTask() *cli.Command {
	return &cli.Command{
		Name:  "logs-task",
		Usage: "Show the activity log of a task",
		Flags: []cli.Flag{idFlag("task-id", "Task ID")},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logs, err := s.session.Client.LogsByTask(ctx, cmd.Int64("task-id"))
			if err != nil {
				return goerr.Wrap(err, "failed to fetch activity log")
			}
			s.printLogs(logs)
			return nil
		},
	}
}

func (s *Shell) cmdLogsProject() *cli.Command {
	return &cli.Command{
		Name:  "logs-project",
		Usage: "Show the activity log of every task in a project",
		Flags: []cli.Flag{idFlag("project-id", "Project ID")},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logs, err := s.session.Client.LogsByProject(ctx, cmd.Int64("project-id"))
			if err != nil {
				return goerr.Wrap(err, "failed to fetch activity log")
			}
			s.printLogs(logs)
			return nil
		},
	}
}

func (s *Shell) printLogs(logs []models.ActivityLog) {
	if len(logs) == 0 {
		s.out.warning("No activity found")
		return
	}
	s.out.table([]string{"timestamp", "task_id", "user_id", "description"}, logRows(logs))
}

func displayName(u *models.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		return u.ID
	}
	return name
}
