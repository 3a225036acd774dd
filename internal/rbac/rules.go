package rbac

// Default policy. Students sit exams; teachers import and run them.
var RolePermissions = map[string][]string{
	"student": {
		"exam:view",
		"room:join",
		"submission:create",
		"submission:save",
		"submission:submit",
		"submission:view-own",
	},
	"teacher": {
		"exam:import",
		"exam:view",
		"exam:view-full",
		"exam:delete",
		"room:*",
		"submission:view-all",
	},
	"admin": {
		"*", // everything
	},
}
