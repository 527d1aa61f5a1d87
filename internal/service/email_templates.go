package service

import "fmt"

func welcomeEmailTemplate(name, appURL, appName string) (subject, body string) {
	subject = fmt.Sprintf("Welcome to %s", appName)
	body = fmt.Sprintf(`Hi %s,

Your account has been created. You can browse upcoming events and apply to
courses here:

%s/events

If you did not create this account, you can ignore this email.

— %s`, name, appURL, appName)
	return subject, body
}

func applicationApprovedEmailTemplate(name, courseName, eventName, appURL, appName string) (subject, body string) {
	subject = fmt.Sprintf("Your application for %s was approved", courseName)
	body = fmt.Sprintf(`Hi %s,

Your application for the course "%s" (%s) has been approved.

You can review your applications here:

%s/applications

— %s`, name, courseName, eventName, appURL, appName)
	return subject, body
}
